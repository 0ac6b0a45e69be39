package ui

import (
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/timer"
)

// Messages for inter-component communication

// tickMsg is sent every second while the watch screen is open
type tickMsg struct{}

// statusLoadedMsg carries a fresh snapshot of the timer and the day so far
type statusLoadedMsg struct {
	status    *timer.Status
	standards report.Standards
	today     *report.DaySummary
}

// actionDoneMsg reports a completed timer action
type actionDoneMsg struct {
	verb string
}

// stoppedMsg reports a stopped timer with the recorded hours
type stoppedMsg struct {
	hours float64
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
