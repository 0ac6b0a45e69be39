package report

import (
	"fmt"
	"time"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
)

// Store is the read surface the engine aggregates from
type Store interface {
	EntriesBetween(from, to string) ([]model.TimeEntry, error)
	LeaveDaysBetween(from, to string) ([]model.LeaveDay, error)
	SettingsMap() (map[string]string, error)
}

var _ Store = (*db.DB)(nil)

// DaySummary aggregates one day's worked hours
type DaySummary struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Overtime float64 `json:"overtime"`
	Entries  int     `json:"entries"`
}

// WeekSummary aggregates one ISO week, Monday through Sunday
type WeekSummary struct {
	Week       string       `json:"week"` // e.g. 2026-W10
	Start      string       `json:"start"`
	End        string       `json:"end"`
	Days       []DaySummary `json:"days"`
	TotalHours float64      `json:"total_hours"`
	Overtime   float64      `json:"overtime"`
}

// MonthSummary aggregates a calendar month. TotalOvertime is the sum of the
// daily overtimes, not the overtime of the monthly total.
type MonthSummary struct {
	Month         string       `json:"month"` // YYYY-MM
	Days          []DaySummary `json:"days"`
	TotalHours    float64      `json:"total_hours"`
	TotalOvertime float64      `json:"total_overtime"`
	VacationDays  int          `json:"vacation_days"`
	SickDays      int          `json:"sick_days"`
}

// DailyOvertime returns hours worked beyond the daily standard, floored at
// zero. Working less than the standard is not negative overtime.
func DailyOvertime(worked, standard float64) float64 {
	if worked <= standard {
		return 0
	}
	return worked - standard
}

// WeeklyOvertime mirrors DailyOvertime for a week's total
func WeeklyOvertime(total, standard float64) float64 {
	if total <= standard {
		return 0
	}
	return total - standard
}

// SessionAlert reports whether a session has reached the alert threshold
func SessionAlert(elapsedHours, maxHours float64) bool {
	return elapsedHours >= maxHours
}

// WeekRange returns midnight of the Monday and the Sunday of the ISO week
// containing t
func WeekRange(t time.Time) (time.Time, time.Time) {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	monday := t.AddDate(0, 0, -offset+1)
	sunday := monday.AddDate(0, 0, 6)
	return monday, sunday
}

// WeekKey returns the ISO week label for t, e.g. 2026-W10
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Engine computes summaries from stored entries and leave days. A running
// entry contributes its live elapsed time to the period it falls in.
type Engine struct {
	store Store
	now   func() time.Time
}

// New creates a reporting engine backed by the given store
func New(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Standards loads the configured work rules, falling back to defaults for
// anything missing
func (e *Engine) Standards() (Standards, error) {
	values, err := e.store.SettingsMap()
	if err != nil {
		return DefaultStandards(), err
	}
	return StandardsFromSettings(values), nil
}

// DayOf returns the summary for a single day
func (e *Engine) DayOf(date time.Time) (*DaySummary, error) {
	std, err := e.Standards()
	if err != nil {
		return nil, err
	}

	key := date.Format(model.DateFormat)
	entries, err := e.store.EntriesBetween(key, key)
	if err != nil {
		return nil, err
	}

	byDay := e.hoursByDay(entries)
	agg := byDay[key]
	return &DaySummary{
		Date:     key,
		Hours:    agg.hours,
		Overtime: DailyOvertime(agg.hours, std.HoursPerDay),
		Entries:  agg.count,
	}, nil
}

// WeekOf returns the summary for the ISO week containing date. Every day of
// the week appears, worked or not.
func (e *Engine) WeekOf(date time.Time) (*WeekSummary, error) {
	std, err := e.Standards()
	if err != nil {
		return nil, err
	}

	monday, sunday := WeekRange(date)
	entries, err := e.store.EntriesBetween(monday.Format(model.DateFormat), sunday.Format(model.DateFormat))
	if err != nil {
		return nil, err
	}

	byDay := e.hoursByDay(entries)
	days := make([]DaySummary, 0, 7)
	total := 0.0
	for d := monday; !d.After(sunday); d = d.AddDate(0, 0, 1) {
		key := d.Format(model.DateFormat)
		agg := byDay[key]
		days = append(days, DaySummary{
			Date:     key,
			Hours:    agg.hours,
			Overtime: DailyOvertime(agg.hours, std.HoursPerDay),
			Entries:  agg.count,
		})
		total += agg.hours
	}

	return &WeekSummary{
		Week:       WeekKey(monday),
		Start:      monday.Format(model.DateFormat),
		End:        sunday.Format(model.DateFormat),
		Days:       days,
		TotalHours: total,
		Overtime:   WeeklyOvertime(total, std.HoursPerWeek),
	}, nil
}

// MonthOf returns the summary for a calendar month
func (e *Engine) MonthOf(year int, month time.Month) (*MonthSummary, error) {
	std, err := e.Standards()
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	from := first.Format(model.DateFormat)
	to := last.Format(model.DateFormat)

	entries, err := e.store.EntriesBetween(from, to)
	if err != nil {
		return nil, err
	}
	leaves, err := e.store.LeaveDaysBetween(from, to)
	if err != nil {
		return nil, err
	}

	byDay := e.hoursByDay(entries)
	days := make([]DaySummary, 0, 31)
	total := 0.0
	totalOvertime := 0.0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(model.DateFormat)
		agg := byDay[key]
		overtime := DailyOvertime(agg.hours, std.HoursPerDay)
		days = append(days, DaySummary{
			Date:     key,
			Hours:    agg.hours,
			Overtime: overtime,
			Entries:  agg.count,
		})
		total += agg.hours
		totalOvertime += overtime
	}

	vacation, sick := 0, 0
	for _, l := range leaves {
		switch l.Type {
		case model.LeaveVacation:
			vacation++
		case model.LeaveSick:
			sick++
		}
	}

	return &MonthSummary{
		Month:         first.Format("2006-01"),
		Days:          days,
		TotalHours:    total,
		TotalOvertime: totalOvertime,
		VacationDays:  vacation,
		SickDays:      sick,
	}, nil
}

type dayAgg struct {
	hours float64
	count int
}

func (e *Engine) hoursByDay(entries []model.TimeEntry) map[string]dayAgg {
	now := e.now()
	byDay := make(map[string]dayAgg)
	for _, entry := range entries {
		agg := byDay[entry.Date]
		agg.hours += entry.LiveHours(now)
		agg.count++
		byDay[entry.Date] = agg
	}
	return byDay
}
