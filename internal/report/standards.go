package report

import (
	"strconv"

	"github.com/GMouaad/waqt/internal/model"
)

// Standards are the work-rule parameters aggregation runs against
type Standards struct {
	HoursPerDay     float64 `json:"hours_per_day"`
	HoursPerWeek    float64 `json:"hours_per_week"`
	MaxSessionHours float64 `json:"max_session_hours"`
}

// DefaultStandards returns the values assumed when nothing is configured:
// an eight hour day, a forty hour week and a ten hour session cap.
func DefaultStandards() Standards {
	return Standards{
		HoursPerDay:     8,
		HoursPerWeek:    40,
		MaxSessionHours: 10,
	}
}

// StandardsFromSettings overlays stored settings onto the defaults. Missing
// or unparseable values keep their defaults, so aggregation never fails on
// configuration.
func StandardsFromSettings(values map[string]string) Standards {
	s := DefaultStandards()
	if v, ok := parsePositive(values[model.SettingStandardHoursPerDay]); ok {
		s.HoursPerDay = v
	}
	if v, ok := parsePositive(values[model.SettingStandardHoursPerWeek]); ok {
		s.HoursPerWeek = v
	}
	if v, ok := parsePositive(values[model.SettingMaxSessionHours]); ok {
		s.MaxSessionHours = v
	}
	return s
}

func parsePositive(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
