package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/trailblaze/booking-api/internal/domain"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	MissingFields []string `json:"missingFields,omitempty"`
	Details       string   `json:"details,omitempty"`
}

// statusFor maps a domain sentinel to its HTTP status and default message.
var statusFor = []struct {
	kind    error
	status  int
	message string
}{
	{domain.ErrValidation, http.StatusBadRequest, "invalid request"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "you are not allowed to access this resource"},
	{domain.ErrNotFound, http.StatusNotFound, "not found"},
	{domain.ErrReferentialIntegrity, http.StatusBadRequest, "a referenced resource does not exist"},
	{domain.ErrDuplicate, http.StatusConflict, "resource already exists"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrTimeout, http.StatusGatewayTimeout, "the database did not respond in time"},
}

// writeError maps err onto the error taxonomy and writes the response.
// resource names what was being looked up, for 404 messages such as
// "booking not found".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	body := errorResponse{Success: false}
	status := http.StatusInternalServerError

	for _, m := range statusFor {
		if errors.Is(err, m.kind) {
			status, body.Error = m.status, m.message
			break
		}
	}

	var (
		missing    *domain.MissingFieldsError
		transition *domain.TransitionError
		detailed   *domain.Error
	)
	switch {
	case errors.As(err, &missing):
		body.Error = missing.Error()
		body.MissingFields = missing.Fields
	case errors.As(err, &transition):
		body.Error = transition.Error()
	case errors.As(err, &detailed):
		body.Error = detailed.Message
	case status == http.StatusNotFound && resource != "":
		body.Error = resource + " not found"
	}

	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
		if s.devErrors {
			body.Details = err.Error()
		}
	}
	if status >= 500 {
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, status, body)
}

// writeBadRequest rejects a request before it reaches the service layer.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: message})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into dst. It writes the error response
// itself and reports false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeBadRequest(w, "request body is required")
		return false
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Success: false, Error: "request body too large"})
		return false
	}
	writeBadRequest(w, "invalid JSON body")
	return false
}
