package apiclient

import "time"

// SessionRecord mirrors a completed acquisition session as recorded by
// the history store.
type SessionRecord struct {
	ID                  string    `json:"id"`
	RunMode             string    `json:"run_mode"`
	IterationsRequested int64     `json:"iterations_requested"`
	IterationsCompleted int64     `json:"iterations_completed"`
	StartedAt           time.Time `json:"started_at"`
	EndedAt             time.Time `json:"ended_at"`
	FinalState          string    `json:"final_state"`
	Message             string    `json:"message"`
}

// ListHistory returns every recorded acquisition session.
func (c *Client) ListHistory() ([]SessionRecord, error) {
	var records []SessionRecord
	if err := c.get("/api/v1/history", &records); err != nil {
		return nil, err
	}
	return records, nil
}
