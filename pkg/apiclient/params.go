package apiclient

import "fmt"

// Param summarizes a single analyzer parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Unit string `json:"unit,omitempty"`
}

// ParamValue is a Param with its current value.
type ParamValue struct {
	Param
	Value string `json:"value"`
}

// ListParams returns every exposed analyzer parameter.
func (c *Client) ListParams() ([]Param, error) {
	var params []Param
	if err := c.get("/api/v1/params", &params); err != nil {
		return nil, err
	}
	return params, nil
}

// GetParam returns the current value of a named parameter.
func (c *Client) GetParam(name string) (*ParamValue, error) {
	var pv ParamValue
	if err := c.get(fmt.Sprintf("/api/v1/params/%s", name), &pv); err != nil {
		return nil, err
	}
	return &pv, nil
}

// SetParam sets a named parameter to value, given as its string form.
func (c *Client) SetParam(name, value string) error {
	return c.put(fmt.Sprintf("/api/v1/params/%s", name), map[string]string{"value": value}, nil)
}
