package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/timer"
)

// ErrorResponse is the envelope every error reply uses
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError carries a stable machine-readable code next to the message
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) ErrorResponse {
	return ErrorResponse{
		Error: APIError{
			Code:      code,
			Message:   message,
			RequestID: chimiddleware.GetReqID(r.Context()),
		},
	}
}

// handleDomainError maps timer and store errors onto status codes with
// stable codes. State conflicts are 409, bad ranges 400, unknown ids 404.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var rangeErr *timer.InvalidRangeError
	switch {
	case errors.Is(err, timer.ErrAlreadyActive):
		writeJSON(w, http.StatusConflict, errorResp("ALREADY_ACTIVE", err.Error(), r))
	case errors.Is(err, timer.ErrNotRunning):
		writeJSON(w, http.StatusConflict, errorResp("NOT_RUNNING", err.Error(), r))
	case errors.Is(err, timer.ErrNotPaused):
		writeJSON(w, http.StatusConflict, errorResp("NOT_PAUSED", err.Error(), r))
	case errors.Is(err, timer.ErrNoActiveTimer):
		writeJSON(w, http.StatusConflict, errorResp("NO_ACTIVE_TIMER", err.Error(), r))
	case errors.Is(err, timer.ErrEntryActive):
		writeJSON(w, http.StatusConflict, errorResp("ENTRY_ACTIVE", err.Error(), r))
	case errors.As(err, &rangeErr):
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_RANGE", err.Error(), r))
	case errors.Is(err, db.ErrEntryNotFound), errors.Is(err, db.ErrLeaveDayNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", err.Error(), r))
	case errors.Is(err, db.ErrLeaveDayExists):
		writeJSON(w, http.StatusConflict, errorResp("LEAVE_EXISTS", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
