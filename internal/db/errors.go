package db

import (
	"errors"
)

// Sentinel errors returned by store operations. Guarded updates return
// ErrEntryNotFound when no row matched both the id and the expected state,
// which callers treat as a lost race.
var (
	ErrEntryNotFound     = errors.New("time entry not found")
	ErrActiveEntryExists = errors.New("an active time entry already exists")
	ErrLeaveDayNotFound  = errors.New("leave day not found")
	ErrLeaveDayExists    = errors.New("leave day already recorded for that date")
)
