package timer

import (
	"errors"
	"fmt"
	"time"
)

// State transition errors. Each failed transition leaves stored state
// untouched; callers recover by reporting the conflict.
var (
	ErrAlreadyActive = errors.New("a timer is already running")
	ErrNotRunning    = errors.New("timer is not running")
	ErrNotPaused     = errors.New("timer is not paused")
	ErrNoActiveTimer = errors.New("no active timer")
	ErrEntryActive   = errors.New("the running entry cannot be edited, stop it first")
)

// InvalidRangeError reports an end timestamp before its start
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}
