package timer

import (
	"time"
)

const day = 24 * time.Hour

// NetDuration computes the net worked time between two full timestamps after
// subtracting pause. The dates are trusted as entered, so an end before the
// start is an error rather than a day wrap. A pause exceeding the raw span
// clamps the result to zero.
func NetDuration(start, end time.Time, pause time.Duration) (time.Duration, error) {
	if end.Before(start) {
		return 0, &InvalidRangeError{Start: start, End: end}
	}
	net := end.Sub(start) - pause
	if net < 0 {
		net = 0
	}
	return net, nil
}

// NetClockDuration computes net worked time from wall-clock offsets into the
// same day. An end before the start means the shift ran past midnight, so one
// day is added before subtracting the pause.
func NetClockDuration(start, end, pause time.Duration) time.Duration {
	if end < start {
		end += day
	}
	net := end - start - pause
	if net < 0 {
		net = 0
	}
	return net
}
