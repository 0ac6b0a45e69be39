package model

import (
	"time"
)

// Setting keys understood by the application
const (
	SettingStandardHoursPerDay  = "standard_hours_per_day"
	SettingStandardHoursPerWeek = "standard_hours_per_week"
	SettingMaxSessionHours      = "max_session_hours"
)

// Setting is a single key/value configuration row
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnownSettingKey returns true for keys the application interprets
func KnownSettingKey(key string) bool {
	switch key {
	case SettingStandardHoursPerDay, SettingStandardHoursPerWeek, SettingMaxSessionHours:
		return true
	}
	return false
}
