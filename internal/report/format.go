package report

import (
	"fmt"
	"time"
)

// FormatHours renders fractional hours as H:MM, rounded to the minute
func FormatHours(hours float64) string {
	d := time.Duration(hours * float64(time.Hour)).Round(time.Minute)
	h := d.Truncate(time.Hour)
	m := d - h
	return fmt.Sprintf("%d:%02d", int(h.Hours()), int(m.Minutes()))
}

// FormatClock renders a duration as HH:MM:SS for live displays
func FormatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}
