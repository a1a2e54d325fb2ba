package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/pkordes/travel-booking/internal/domain"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message for humans.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeNotFound         = "not_found"
	codeValidation       = "validation_error"
	codeCapacityExceeded = "capacity_exceeded"
	codeConflict         = "conflict"
	codeInternal         = "internal_error"
)

// writeJSON renders v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeError renders an ErrorResponse.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError answers 400 for a request rejected before reaching the
// service layer (malformed body, non-numeric path id).
func requestError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, codeValidation, message)
}

// serviceError maps a service error onto its HTTP status. Store failures
// become 500 carrying the driver message after the sentinel; errors matching
// no known sentinel become 500 with a generic message. Both are logged.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "client not found")
	case errors.Is(err, domain.ErrTripNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "trip not found")
	case errors.Is(err, domain.ErrRegistrationNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "registration not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, unwrapMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrCapacityExceeded):
		writeError(w, r, http.StatusBadRequest, codeCapacityExceeded, domain.ErrCapacityExceeded.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered):
		writeError(w, r, http.StatusConflict, codeConflict, domain.ErrAlreadyRegistered.Error())
	case errors.Is(err, domain.ErrAlreadyPaid):
		writeError(w, r, http.StatusConflict, codeConflict, domain.ErrAlreadyPaid.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.logFailure(r, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, unwrapMessage(err, domain.ErrStoreUnavailable))
	default:
		s.logFailure(r, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// logFailure records a 500 with the request id so the response can be
// matched to the log line.
func (s *Server) logFailure(r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
}

// unwrapMessage extracts the human-readable part that follows sentinel in a
// wrapped error.
// e.g. "service.ClientService.Create: validation error: email is required" → "email is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// pathID parses the chi URL parameter name as a positive id. Ids are
// INTEGER columns, so anything outside int32 is rejected here rather than
// failing to encode as a query parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// pathIDs parses the {id} and {tripId} parameters shared by the
// registration routes.
func pathIDs(r *http.Request) (clientID, tripID int64, err error) {
	if clientID, err = pathID(r, "id"); err != nil {
		return 0, 0, err
	}
	if tripID, err = pathID(r, "tripId"); err != nil {
		return 0, 0, err
	}
	return clientID, tripID, nil
}
