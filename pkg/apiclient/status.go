package apiclient

// Status mirrors the GET /api/v1/status response.
type Status struct {
	Connected     bool   `json:"connected"`
	ServerName    string `json:"server_name,omitempty"`
	ProtocolMajor int    `json:"protocol_major,omitempty"`
	ProtocolMinor int    `json:"protocol_minor,omitempty"`
	State         string `json:"state"`
	ADStatus      string `json:"ad_status"`
	Message       string `json:"message,omitempty"`
	RunMode       string `json:"run_mode"`
	OperatingMode string `json:"operating_mode"`
	SafeState     bool   `json:"safe_state"`
	NumExposures  int64  `json:"num_exposures"`
}

// GetStatus returns the analyzer connection and acquisition state.
func (c *Client) GetStatus() (*Status, error) {
	var s Status
	if err := c.get("/api/v1/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
