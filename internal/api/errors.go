package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/gray-logic-proxy/internal/bridges/lighting"
	"github.com/nerrad567/gray-logic-proxy/internal/command"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// Error is the body of every /api/v1 error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeInternal     = "internal_error"
	ErrCodeBadGateway   = "bad_gateway"
	ErrCodeUnavailable  = "unavailable"
)

// legacyFailure is the bare number /proxy clients treat as "no value".
const legacyFailure = int(target.Sentinel)

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeLegacyFailure answers a /proxy route with the bare -1.
func writeLegacyFailure(w http.ResponseWriter, status int) {
	writeJSON(w, status, legacyFailure)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

func writeBadGateway(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadGateway, ErrCodeBadGateway, message)
}

func writeUnavailable(w http.ResponseWriter, message string) {
	writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// isCommandValidationError reports scene command errors caused by the
// request itself rather than the controller.
func isCommandValidationError(err error) bool {
	return errors.Is(err, command.ErrMissingURL) ||
		errors.Is(err, command.ErrMissingToken) ||
		errors.Is(err, lighting.ErrInvalidScene)
}

// isControllerError reports failures reaching or understanding a controller.
func isControllerError(err error) bool {
	return lighting.IsNetwork(err) || lighting.IsDecode(err)
}
