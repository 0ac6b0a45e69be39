package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/report"
)

// SettingsHandler reads and updates the stored work rules.
type SettingsHandler struct {
	store  *db.DB
	engine *report.Engine
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *db.DB, engine *report.Engine) *SettingsHandler {
	return &SettingsHandler{store: store, engine: engine}
}

type settingsResponse struct {
	Settings  map[string]string `json:"settings"`
	Standards report.Standards  `json:"standards"`
}

// Get returns the stored settings alongside the effective standards.
// Keys that were never set fall back to the defaults, so the standards
// block is always complete.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stored, err := h.store.SettingsMap()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	std, err := h.engine.Standards()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: stored, Standards: std})
}

// Update upserts the submitted settings and returns the new effective standards
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(req.Settings) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No settings provided", r))
		return
	}

	for key, value := range req.Settings {
		if !model.KnownSettingKey(key) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown setting: "+key, r))
			return
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Setting "+key+" must be a positive number", r))
			return
		}
	}

	for key, value := range req.Settings {
		if err := h.store.SetSetting(key, value); err != nil {
			handleDomainError(w, r, err)
			return
		}
	}

	stored, err := h.store.SettingsMap()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	std, err := h.engine.Standards()
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: stored, Standards: std})
}
