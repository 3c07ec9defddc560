package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
	"github.com/specs-group/kreiosd/pkg/api"
)

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is
// written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	api.JSON(w, status, data)
}

func healthyResponse(data interface{}) api.Response {
	return api.HealthyResponse(data)
}

func unhealthyResponse(errMsg string) api.Response {
	return api.UnhealthyResponse(errMsg)
}

func unhealthyResponseWithData(data interface{}) api.Response {
	resp := api.UnhealthyResponse("")
	resp.Data = data
	return resp
}

// BadRequest writes a 400 response with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, api.ErrorResponse(msg))
}

// NotFound writes a 404 response with the given message.
func NotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, api.ErrorResponse(msg))
}

// Conflict writes a 409 response with the given message.
func Conflict(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusConflict, api.ErrorResponse(msg))
}

// Unauthorized writes a 401 response with the given message.
func Unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, api.ErrorResponse(msg))
}

// InternalServerError writes a 500 response with the given message.
func InternalServerError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, api.ErrorResponse(msg))
}

// ServiceUnavailable writes a 503 response with the given message.
func ServiceUnavailable(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusServiceUnavailable, api.ErrorResponse(msg))
}

// writeProtocolError maps a driver-layer error to the appropriate HTTP
// status, unwrapping *prodigy.Error when present.
func writeProtocolError(w http.ResponseWriter, err error) {
	var perr *prodigy.Error
	if !errors.As(err, &perr) {
		InternalServerError(w, err.Error())
		return
	}

	switch perr.Kind {
	case prodigy.KindValidationFailed, prodigy.KindAcquisitionShort:
		BadRequest(w, perr.Error())
	case prodigy.KindAcquisitionBusy:
		Conflict(w, perr.Error())
	case prodigy.KindConnectionUnavailable, prodigy.KindTransportLost:
		ServiceUnavailable(w, perr.Error())
	default:
		InternalServerError(w, perr.Error())
	}
}
