package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
)

// LeaveHandler manages vacation and sick days
type LeaveHandler struct {
	store *db.DB
}

func NewLeaveHandler(store *db.DB) *LeaveHandler {
	return &LeaveHandler{store: store}
}

// List returns the leave days of a year, defaulting to the current one
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "year must be a number", r))
			return
		}
		year = n
	}

	days, err := h.store.LeaveDaysBetween(
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	vacation, sick := 0, 0
	for _, d := range days {
		switch d.Type {
		case model.LeaveVacation:
			vacation++
		case model.LeaveSick:
			sick++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leave_days":    days,
		"year":          year,
		"vacation_days": vacation,
		"sick_days":     sick,
	})
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string `json:"date"`
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if _, err := time.Parse(model.DateFormat, req.Date); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "date must be YYYY-MM-DD", r))
		return
	}
	if !model.ValidLeaveType(req.Type) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "type must be vacation or sick", r))
		return
	}

	day, err := h.store.CreateLeaveDay(req.Date, model.LeaveType(req.Type), req.Description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"leave_day": day})
}

func (h *LeaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteLeaveDay(id); err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Leave day deleted"})
}
