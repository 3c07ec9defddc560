package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/specs-group/kreiosd/internal/cli/health"
)

// Health checks the unauthenticated liveness endpoint.
func (c *Client) Health() (*health.Response, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var h health.Response
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &h, nil
}
