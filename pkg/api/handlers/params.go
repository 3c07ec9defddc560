package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/specs-group/kreiosd/internal/analyzer"
	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/pkg/api"
)

// ParamHandler serves the C4 analyzer parameter mirror surface.
type ParamHandler struct {
	driver *driver.Driver
}

// NewParamHandler creates a new parameter handler.
func NewParamHandler(d *driver.Driver) *ParamHandler {
	return &ParamHandler{driver: d}
}

type paramSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Unit string `json:"unit,omitempty"`
}

type paramValue struct {
	paramSummary
	Value string `json:"value"`
}

// List handles GET /api/v1/params.
func (h *ParamHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.driver.ParamNames()
	out := make([]paramSummary, 0, len(names))
	for _, name := range names {
		p, ok := h.driver.ParamInfo(name)
		if !ok {
			continue
		}
		out = append(out, paramSummary{Name: p.Name, Type: p.Type.String(), Unit: p.Unit})
	}
	writeJSON(w, http.StatusOK, api.OKResponse(out))
}

// Get handles GET /api/v1/params/{name}.
func (h *ParamHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := h.driver.ParamInfo(name)
	if !ok {
		NotFound(w, "unknown parameter: "+name)
		return
	}

	summary := paramSummary{Name: info.Name, Type: info.Type.String(), Unit: info.Unit}

	if info.Type == analyzer.TypeString || info.Type == analyzer.TypeBool {
		val, err := h.driver.GetParamString(r.Context(), name)
		if err != nil {
			writeProtocolError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.OKResponse(paramValue{paramSummary: summary, Value: val}))
		return
	}

	val, err := h.driver.GetParamFloat(r.Context(), name)
	if err != nil {
		writeProtocolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse(paramValue{
		paramSummary: summary,
		Value:        strconv.FormatFloat(val, 'g', -1, 64),
	}))
}

type setParamRequest struct {
	Value string `json:"value"`
}

// Set handles PUT /api/v1/params/{name}.
func (h *ParamHandler) Set(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := h.driver.ParamInfo(name)
	if !ok {
		NotFound(w, "unknown parameter: "+name)
		return
	}

	var req setParamRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if info.Type == analyzer.TypeString || info.Type == analyzer.TypeBool {
		if err := h.driver.SetParamString(r.Context(), name, req.Value); err != nil {
			writeProtocolError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.OKResponse(nil))
		return
	}

	value, err := strconv.ParseFloat(req.Value, 64)
	if err != nil {
		BadRequest(w, "value is not a number")
		return
	}
	if err := h.driver.SetParamFloat(r.Context(), name, value); err != nil {
		writeProtocolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse(nil))
}
