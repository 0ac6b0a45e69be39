package model

import (
	"time"
)

// DateFormat is the day key layout used for entry and leave dates
const DateFormat = "2006-01-02"

// TimerState represents the current state of the tracking timer
type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
)

// TimeEntry represents a single tracked work interval
type TimeEntry struct {
	ID             string     `json:"id"`
	Date           string     `json:"date"` // day the entry belongs to (YYYY-MM-DD)
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	DurationHours  float64    `json:"duration_hours"`
	PauseSeconds   int64      `json:"pause_seconds"`
	PauseStartedAt *time.Time `json:"pause_started_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	Description    string     `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// State derives the timer state this entry represents
func (e *TimeEntry) State() TimerState {
	switch {
	case !e.IsActive:
		return TimerIdle
	case e.PauseStartedAt != nil:
		return TimerPaused
	default:
		return TimerRunning
	}
}

// Paused returns true if the entry is active and currently mid-pause
func (e *TimeEntry) Paused() bool {
	return e.IsActive && e.PauseStartedAt != nil
}

// Elapsed returns worked time excluding pauses. For a paused entry the
// in-progress pause is subtracted as well, so the value freezes while paused.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	elapsed := end.Sub(e.StartTime) - time.Duration(e.PauseSeconds)*time.Second
	if e.PauseStartedAt != nil {
		elapsed -= now.Sub(*e.PauseStartedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// LiveHours returns the hours this entry contributes to aggregation:
// stored duration for finalized entries, live elapsed for the active one.
func (e *TimeEntry) LiveHours(now time.Time) float64 {
	if e.IsActive {
		return e.Elapsed(now).Hours()
	}
	return e.DurationHours
}
