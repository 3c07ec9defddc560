// Package analyzer implements the Prodigy-facing halves of the driver:
// the parameter mirror, the spectrum definer and the acquisition data
// reader. None of it knows about acquisition state; that lives in
// internal/acquisition.
package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
)

// ValueType is the declared type of an analyzer parameter.
type ValueType int

const (
	TypeDouble ValueType = iota
	TypeInteger
	TypeString
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Parameter is the cached mirror of one analyzer parameter.
type Parameter struct {
	Name  string
	Type  ValueType
	Unit  string
	Raw   string // last known raw wire value
}

// Mirror is the Parameter Mirror (C4): it enumerates analyzer parameters
// at connect, caches them, and serializes typed get/set through the
// broker. busy reports whether an acquisition session currently owns the
// connection, in which case writes are rejected.
type Mirror struct {
	mu     sync.RWMutex
	broker *prodigy.Broker
	params map[string]*Parameter
	busy   func() bool
}

// NewMirror creates a Mirror. busy must report true while the controller
// state is Running or Paused.
func NewMirror(broker *prodigy.Broker, busy func() bool) *Mirror {
	return &Mirror{
		broker: broker,
		params: make(map[string]*Parameter),
		busy:   busy,
	}
}

// Refresh enumerates every analyzer parameter name and its type/unit.
// Called once after Connect.
func (m *Mirror) Refresh(ctx context.Context) error {
	reply, err := m.broker.Exchange(ctx, "GetAllAnalyzerParameterNames")
	if err != nil {
		return err
	}
	raw, ok := reply.Value("Names")
	if !ok {
		return fmt.Errorf("analyzer: GetAllAnalyzerParameterNames reply missing Names")
	}
	nameList := parseStringArray(raw)

	fresh := make(map[string]*Parameter, len(nameList))
	for _, name := range nameList {
		info, err := m.broker.Exchange(ctx, "GetAnalyzerParameterInfo", prodigy.Str("Name", name))
		if err != nil {
			return fmt.Errorf("analyzer: GetAnalyzerParameterInfo(%q): %w", name, err)
		}
		typeTok, _ := info.Value("Type")
		unit, _ := info.StringValue("Unit")

		fresh[name] = &Parameter{
			Name: name,
			Type: parseValueType(typeTok),
			Unit: unit,
		}
	}

	m.mu.Lock()
	m.params = fresh
	m.mu.Unlock()
	return nil
}

func parseValueType(tok string) ValueType {
	switch tok {
	case "integer", "Integer", "int":
		return TypeInteger
	case "string", "String":
		return TypeString
	case "bool", "Bool", "boolean":
		return TypeBool
	default:
		return TypeDouble
	}
}

// parseStringArray parses a "[a,b,c]" list of bare or quoted tokens,
// comma-separated, as used for Names and enum Values lists.
func parseStringArray(v string) []string {
	v = trimBrackets(v)
	if v == "" {
		return nil
	}
	var out []string
	depth := 0
	inQuotes := false
	start := 0
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case inQuotes:
			if c == '"' {
				inQuotes = false
			}
		case c == '"':
			inQuotes = true
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ',' && depth == 0:
			out = append(out, unquoteToken(v[start:i]))
			start = i + 1
		}
	}
	out = append(out, unquoteToken(v[start:]))
	return out
}

func trimBrackets(v string) string {
	if len(v) >= 2 && v[0] == '[' && v[len(v)-1] == ']' {
		return v[1 : len(v)-1]
	}
	return v
}

func unquoteToken(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Names returns the cached parameter names.
func (m *Mirror) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.params))
	for n := range m.params {
		names = append(names, n)
	}
	return names
}

// Lookup returns the cached Parameter descriptor for name.
func (m *Mirror) Lookup(name string) (*Parameter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.params[name]
	return p, ok
}

// GetFloat reads and returns a double-valued parameter's current value.
func (m *Mirror) GetFloat(ctx context.Context, name string) (float64, error) {
	reply, err := m.broker.Exchange(ctx, "GetAnalyzerParameterValue", prodigy.Str("Name", name))
	if err != nil {
		return 0, err
	}
	return reply.Float("Value")
}

// GetString reads and returns a string-valued parameter's current value.
func (m *Mirror) GetString(ctx context.Context, name string) (string, error) {
	reply, err := m.broker.Exchange(ctx, "GetAnalyzerParameterValue", prodigy.Str("Name", name))
	if err != nil {
		return "", err
	}
	return reply.StringValue("Value")
}

// SetFloat writes a double-valued parameter, then reads it back to keep
// the write-through cache consistent. Rejected with AcquisitionBusy while
// an acquisition session owns the connection.
func (m *Mirror) SetFloat(ctx context.Context, name string, value float64) error {
	if m.busy() {
		return &prodigy.Error{Kind: prodigy.KindAcquisitionBusy, Message: "parameter set rejected during acquisition"}
	}
	if _, err := m.broker.Exchange(ctx, "SetAnalyzerParameterValue", prodigy.Str("Name", name), prodigy.Num("Value", value)); err != nil {
		return err
	}
	readBack, err := m.GetFloat(ctx, name)
	if err != nil {
		return err
	}
	m.updateCache(name, fmt.Sprintf("%g", readBack))
	return nil
}

// SetString writes a string-valued parameter and re-reads it for the
// write-through cache.
func (m *Mirror) SetString(ctx context.Context, name string, value string) error {
	if m.busy() {
		return &prodigy.Error{Kind: prodigy.KindAcquisitionBusy, Message: "parameter set rejected during acquisition"}
	}
	if _, err := m.broker.Exchange(ctx, "SetAnalyzerParameterValue", prodigy.Str("Name", name), prodigy.Str("Value", value)); err != nil {
		return err
	}
	readBack, err := m.GetString(ctx, name)
	if err != nil {
		return err
	}
	m.updateCache(name, readBack)
	return nil
}

func (m *Mirror) updateCache(name, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.params[name]; ok {
		p.Raw = raw
	}
}
