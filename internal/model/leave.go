package model

import (
	"time"
)

// LeaveType classifies a day of absence
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick"
)

// LeaveDay represents a full-day absence
type LeaveDay struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Type        LeaveType `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidLeaveType returns true for the two supported absence types
func ValidLeaveType(t string) bool {
	switch LeaveType(t) {
	case LeaveVacation, LeaveSick:
		return true
	}
	return false
}
