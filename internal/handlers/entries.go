package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/timer"
)

// EntriesHandler manages manual time entry CRUD
type EntriesHandler struct {
	svc   *timer.Service
	store *db.DB
}

func NewEntriesHandler(svc *timer.Service, store *db.DB) *EntriesHandler {
	return &EntriesHandler{svc: svc, store: store}
}

// List returns entries in a date range, defaulting to the current month.
// The running entry reports its live hours.
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := first.Format(model.DateFormat)
	to := first.AddDate(0, 1, -1).Format(model.DateFormat)

	if v := r.URL.Query().Get("from"); v != "" {
		if _, err := time.Parse(model.DateFormat, v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "from must be YYYY-MM-DD", r))
			return
		}
		from = v
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if _, err := time.Parse(model.DateFormat, v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "to must be YYYY-MM-DD", r))
			return
		}
		to = v
	}

	entries, err := h.store.EntriesBetween(from, to)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	type entryResponse struct {
		model.TimeEntry
		Hours float64 `json:"hours"`
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{TimeEntry: e, Hours: e.LiveHours(now)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": out, "from": from, "to": to})
}

// Create records a finished entry from wall-clock times. An end before the
// start means the shift crossed midnight.
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date         string `json:"date"`
		Start        string `json:"start"` // HH:MM
		End          string `json:"end"`   // HH:MM
		PauseMinutes int    `json:"pause_minutes"`
		Description  string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	day, err := time.ParseInLocation(model.DateFormat, req.Date, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "date must be YYYY-MM-DD", r))
		return
	}
	start, err := parseClock(req.Start)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "start must be HH:MM", r))
		return
	}
	end, err := parseClock(req.End)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "end must be HH:MM", r))
		return
	}
	if req.PauseMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "pause_minutes must not be negative", r))
		return
	}

	entry, err := h.svc.Add(day, start, end, time.Duration(req.PauseMinutes)*time.Minute, req.Description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// Update rewrites a finalized entry from full timestamps. Unlike Create,
// an end before the start is rejected here.
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		StartTime    time.Time `json:"start_time"`
		EndTime      time.Time `json:"end_time"`
		PauseMinutes int       `json:"pause_minutes"`
		Description  string    `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "start_time and end_time are required", r))
		return
	}
	if req.PauseMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "pause_minutes must not be negative", r))
		return
	}

	entry, err := h.svc.Edit(id, req.StartTime, req.EndTime,
		time.Duration(req.PauseMinutes)*time.Minute, req.Description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Remove(id); err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
