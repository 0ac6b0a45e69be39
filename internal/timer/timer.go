package timer

import (
	"errors"
	"time"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
)

// Store is the persistence surface the timer drives. The sqlite store
// implements it; tests substitute a fake.
type Store interface {
	ActiveEntry() (*model.TimeEntry, error)
	EntryByID(id string) (*model.TimeEntry, error)
	CreateEntry(e *model.TimeEntry) error
	UpdateEntry(e *model.TimeEntry) error
	DeleteEntry(id string) error
	MarkEntryPaused(id string, at time.Time) error
	MarkEntryResumed(id string, pauseSeconds int64) error
	CloseEntry(id string, end time.Time, pauseSeconds int64, hours float64) error
}

var _ Store = (*db.DB)(nil)

// Status is a read-only snapshot of the timer
type Status struct {
	State          model.TimerState `json:"state"`
	EntryID        string           `json:"entry_id,omitempty"`
	Description    string           `json:"description,omitempty"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	ElapsedSeconds int64            `json:"elapsed_seconds"`
}

// Service drives the single tracking timer and records manual entries.
// State is never cached here; every operation reads the active entry fresh,
// so the persisted row is the only source of truth.
type Service struct {
	store Store
	now   func() time.Time
}

// New creates a timer service backed by the given store
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Start begins tracking. Only one entry can run at a time; starting while
// one is active fails with ErrAlreadyActive.
func (s *Service) Start(description string) (*model.TimeEntry, error) {
	active, err := s.store.ActiveEntry()
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyActive
	}

	now := s.now()
	entry := &model.TimeEntry{
		Date:        now.Format(model.DateFormat),
		StartTime:   now,
		IsActive:    true,
		Description: description,
		CreatedAt:   now,
	}
	if err := s.store.CreateEntry(entry); err != nil {
		// A concurrent start can win between the read above and the insert.
		if errors.Is(err, db.ErrActiveEntryExists) {
			return nil, ErrAlreadyActive
		}
		return nil, err
	}
	return entry, nil
}

// Pause suspends the running timer
func (s *Service) Pause() (*model.TimeEntry, error) {
	active, err := s.store.ActiveEntry()
	if err != nil {
		return nil, err
	}
	if active == nil || active.Paused() {
		return nil, ErrNotRunning
	}

	at := s.now()
	if err := s.store.MarkEntryPaused(active.ID, at); err != nil {
		if errors.Is(err, db.ErrEntryNotFound) {
			return nil, ErrNotRunning
		}
		return nil, err
	}
	active.PauseStartedAt = &at
	return active, nil
}

// Resume continues a paused timer, folding the finished pause into the
// accumulated total
func (s *Service) Resume() (*model.TimeEntry, error) {
	active, err := s.store.ActiveEntry()
	if err != nil {
		return nil, err
	}
	if active == nil || !active.Paused() {
		return nil, ErrNotPaused
	}

	now := s.now()
	total := active.PauseSeconds + int64(now.Sub(*active.PauseStartedAt)/time.Second)
	if err := s.store.MarkEntryResumed(active.ID, total); err != nil {
		if errors.Is(err, db.ErrEntryNotFound) {
			return nil, ErrNotPaused
		}
		return nil, err
	}
	active.PauseSeconds = total
	active.PauseStartedAt = nil
	return active, nil
}

// Stop finalizes the running entry. Stopping while paused first folds the
// open pause, so pausing and never resuming does not inflate worked time.
func (s *Service) Stop() (*model.TimeEntry, error) {
	active, err := s.store.ActiveEntry()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveTimer
	}

	now := s.now()
	pauseSeconds := active.PauseSeconds
	if active.Paused() {
		pauseSeconds += int64(now.Sub(*active.PauseStartedAt) / time.Second)
	}

	net, err := NetDuration(active.StartTime, now, time.Duration(pauseSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	hours := net.Hours()

	if err := s.store.CloseEntry(active.ID, now, pauseSeconds, hours); err != nil {
		if errors.Is(err, db.ErrEntryNotFound) {
			return nil, ErrNoActiveTimer
		}
		return nil, err
	}
	active.EndTime = &now
	active.PauseSeconds = pauseSeconds
	active.PauseStartedAt = nil
	active.IsActive = false
	active.DurationHours = hours
	return active, nil
}

// Status reports the current timer state without mutating anything
func (s *Service) Status() (*Status, error) {
	active, err := s.store.ActiveEntry()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return &Status{State: model.TimerIdle}, nil
	}

	startedAt := active.StartTime
	return &Status{
		State:          active.State(),
		EntryID:        active.ID,
		Description:    active.Description,
		StartedAt:      &startedAt,
		ElapsedSeconds: int64(active.Elapsed(s.now()) / time.Second),
	}, nil
}

// Add records a finished entry from wall-clock times on a given day. An end
// before the start is read as a shift that crossed midnight.
func (s *Service) Add(day time.Time, start, end, pause time.Duration, description string) (*model.TimeEntry, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	startTime := day.Add(start)
	if end < start {
		end += 24 * time.Hour
	}
	endTime := day.Add(end)

	net := NetClockDuration(start, end, pause)
	entry := &model.TimeEntry{
		Date:          day.Format(model.DateFormat),
		StartTime:     startTime,
		EndTime:       &endTime,
		DurationHours: net.Hours(),
		PauseSeconds:  int64(pause / time.Second),
		Description:   description,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Edit rewrites a finalized entry from full timestamps. Unlike Add, the
// range is trusted as entered: an end before the start is rejected.
func (s *Service) Edit(id string, start, end time.Time, pause time.Duration, description string) (*model.TimeEntry, error) {
	entry, err := s.store.EntryByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, db.ErrEntryNotFound
	}
	if entry.IsActive {
		return nil, ErrEntryActive
	}

	net, err := NetDuration(start, end, pause)
	if err != nil {
		return nil, err
	}

	entry.Date = start.Format(model.DateFormat)
	entry.StartTime = start
	entry.EndTime = &end
	entry.DurationHours = net.Hours()
	entry.PauseSeconds = int64(pause / time.Second)
	entry.Description = description
	if err := s.store.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes an entry
func (s *Service) Remove(id string) error {
	return s.store.DeleteEntry(id)
}
