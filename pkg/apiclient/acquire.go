package apiclient

// Progress mirrors the GET /api/v1/acquire/progress response.
type Progress struct {
	Busy             bool    `json:"busy"`
	Iteration        int64   `json:"iteration"`
	Iterations       int64   `json:"iterations"`
	IterationPercent float64 `json:"iteration_percent"`
	OverallPercent   float64 `json:"overall_percent"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	StatusText       string  `json:"status_text"`
}

// StartAcquisition starts a run using the currently mirrored parameters.
func (c *Client) StartAcquisition() error { return c.post("/api/v1/acquire/start", nil, nil) }

// StopAcquisition aborts the running acquisition, if any.
func (c *Client) StopAcquisition() error { return c.post("/api/v1/acquire/stop", nil, nil) }

// PauseAcquisition pauses the running acquisition.
func (c *Client) PauseAcquisition() error { return c.post("/api/v1/acquire/pause", nil, nil) }

// ResumeAcquisition resumes a paused acquisition.
func (c *Client) ResumeAcquisition() error { return c.post("/api/v1/acquire/resume", nil, nil) }

// GetProgress returns the current acquisition progress.
func (c *Client) GetProgress() (*Progress, error) {
	var p Progress
	if err := c.get("/api/v1/acquire/progress", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
