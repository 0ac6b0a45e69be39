package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/timer"
)

// TimerHandler exposes the timer state machine over HTTP
type TimerHandler struct {
	svc    *timer.Service
	engine *report.Engine
}

func NewTimerHandler(svc *timer.Service, engine *report.Engine) *TimerHandler {
	return &TimerHandler{svc: svc, engine: engine}
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	// The body is optional; starting without a description is fine.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	entry, err := h.svc.Start(req.Description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Pause()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

func (h *TimerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Resume()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Stop()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

// Status returns the polled snapshot clients render from. The alert flag is
// computed against the configured session cap; dismissal is the client's
// business, so the flag simply stays true once tripped.
func (h *TimerHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	std, err := h.engine.Standards()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	elapsedHours := float64(st.ElapsedSeconds) / 3600
	resp := struct {
		*timer.Status
		ElapsedHours float64 `json:"elapsed_hours"`
		Alert        bool    `json:"alert"`
	}{
		Status:       st,
		ElapsedHours: elapsedHours,
		Alert:        st.State != model.TimerIdle && report.SessionAlert(elapsedHours, std.MaxSessionHours),
	}
	writeJSON(w, http.StatusOK, resp)
}
