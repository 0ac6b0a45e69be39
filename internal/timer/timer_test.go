package timer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/model"
)

// memStore is an in-memory Store with the same guard semantics as the
// sqlite store: mutations only touch rows in the expected state.
type memStore struct {
	entries map[string]*model.TimeEntry
	seq     int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]*model.TimeEntry)}
}

func (m *memStore) ActiveEntry() (*model.TimeEntry, error) {
	for _, e := range m.entries {
		if e.IsActive {
			clone := *e
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memStore) EntryByID(id string) (*model.TimeEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (m *memStore) CreateEntry(e *model.TimeEntry) error {
	if e.IsActive {
		for _, ex := range m.entries {
			if ex.IsActive {
				return db.ErrActiveEntryExists
			}
		}
	}
	if e.ID == "" {
		m.seq++
		e.ID = fmt.Sprintf("entry-%d", m.seq)
	}
	clone := *e
	m.entries[e.ID] = &clone
	return nil
}

func (m *memStore) UpdateEntry(e *model.TimeEntry) error {
	existing, ok := m.entries[e.ID]
	if !ok || existing.IsActive {
		return db.ErrEntryNotFound
	}
	clone := *e
	m.entries[e.ID] = &clone
	return nil
}

func (m *memStore) DeleteEntry(id string) error {
	if _, ok := m.entries[id]; !ok {
		return db.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memStore) MarkEntryPaused(id string, at time.Time) error {
	e, ok := m.entries[id]
	if !ok || !e.IsActive || e.PauseStartedAt != nil {
		return db.ErrEntryNotFound
	}
	t := at
	e.PauseStartedAt = &t
	return nil
}

func (m *memStore) MarkEntryResumed(id string, pauseSeconds int64) error {
	e, ok := m.entries[id]
	if !ok || !e.IsActive || e.PauseStartedAt == nil {
		return db.ErrEntryNotFound
	}
	e.PauseSeconds = pauseSeconds
	e.PauseStartedAt = nil
	return nil
}

func (m *memStore) CloseEntry(id string, end time.Time, pauseSeconds int64, hours float64) error {
	e, ok := m.entries[id]
	if !ok || !e.IsActive {
		return db.ErrEntryNotFound
	}
	t := end
	e.EndTime = &t
	e.PauseSeconds = pauseSeconds
	e.PauseStartedAt = nil
	e.IsActive = false
	e.DurationHours = hours
	return nil
}

// newTestService wires a service to a fresh store and a controllable clock.
// Advance the clock by reassigning *now.
func newTestService(start time.Time) (*Service, *memStore, *time.Time) {
	store := newMemStore()
	svc := New(store)
	now := start
	svc.now = func() time.Time { return now }
	return svc, store, &now
}

func TestFullDayWithLunchBreak(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, _, now := newTestService(start)

	entry, err := svc.Start("feature work")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if entry.Date != "2026-03-02" {
		t.Errorf("entry date = %s, want 2026-03-02", entry.Date)
	}

	*now = start.Add(3 * time.Hour) // 12:00
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	*now = start.Add(3*time.Hour + 30*time.Minute) // 12:30
	resumed, err := svc.Resume()
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.PauseSeconds != 1800 {
		t.Errorf("accumulated pause = %d, want 1800", resumed.PauseSeconds)
	}

	*now = start.Add(8*time.Hour + 30*time.Minute) // 17:30
	stopped, err := svc.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped.DurationHours != 8 {
		t.Errorf("net duration = %v hours, want 8", stopped.DurationHours)
	}
	if stopped.IsActive {
		t.Error("stopped entry still active")
	}
}

func TestStartWhileActive(t *testing.T) {
	svc, store, _ := newTestService(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))

	if _, err := svc.Start("first"); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	_, err := svc.Start("second")
	if !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("second Start error = %v, want ErrAlreadyActive", err)
	}

	// The losing start must not have created anything.
	if len(store.entries) != 1 {
		t.Errorf("store holds %d entries, want 1", len(store.entries))
	}
}

// racingStore simulates another process starting a timer between the
// service's read and its insert.
type racingStore struct {
	*memStore
}

func (r *racingStore) ActiveEntry() (*model.TimeEntry, error) {
	return nil, nil
}

func TestStartLostRace(t *testing.T) {
	store := &racingStore{memStore: newMemStore()}
	winner := &model.TimeEntry{Date: "2026-03-02", StartTime: time.Now(), IsActive: true}
	if err := store.memStore.CreateEntry(winner); err != nil {
		t.Fatalf("seeding winner failed: %v", err)
	}

	svc := New(store)
	_, err := svc.Start("loser")
	if !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("Start error = %v, want ErrAlreadyActive", err)
	}
}

func TestStopFromIdle(t *testing.T) {
	svc, _, _ := newTestService(time.Now())

	_, err := svc.Stop()
	if !errors.Is(err, ErrNoActiveTimer) {
		t.Fatalf("Stop error = %v, want ErrNoActiveTimer", err)
	}
}

func TestPauseTransitions(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, store, now := newTestService(start)

	// Pause from idle
	if _, err := svc.Pause(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Pause from idle = %v, want ErrNotRunning", err)
	}
	// Resume from idle
	if _, err := svc.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("Resume from idle = %v, want ErrNotPaused", err)
	}

	entry, err := svc.Start("")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Resume while running
	if _, err := svc.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("Resume while running = %v, want ErrNotPaused", err)
	}

	*now = start.Add(time.Hour)
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	// Pause while paused
	if _, err := svc.Pause(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Pause while paused = %v, want ErrNotRunning", err)
	}

	// The failed transition must not have disturbed the stored pause.
	stored := store.entries[entry.ID]
	if stored.PauseStartedAt == nil || !stored.PauseStartedAt.Equal(start.Add(time.Hour)) {
		t.Errorf("stored pause start = %v, want %v", stored.PauseStartedAt, start.Add(time.Hour))
	}
}

func TestStopWhilePausedFoldsOpenPause(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, _, now := newTestService(start)

	if _, err := svc.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	*now = start.Add(time.Hour) // 10:00
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	*now = start.Add(2 * time.Hour) // 11:00, still paused
	stopped, err := svc.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if stopped.PauseSeconds != 3600 {
		t.Errorf("pause seconds = %d, want 3600", stopped.PauseSeconds)
	}
	if stopped.DurationHours != 1 {
		t.Errorf("net duration = %v hours, want 1", stopped.DurationHours)
	}
}

func TestPausesAccumulate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, _, now := newTestService(start)

	if _, err := svc.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// 15 minute break
	*now = start.Add(time.Hour)
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	*now = start.Add(time.Hour + 15*time.Minute)
	if _, err := svc.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	// 45 minute break
	*now = start.Add(3 * time.Hour)
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	*now = start.Add(3*time.Hour + 45*time.Minute)
	resumed, err := svc.Resume()
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.PauseSeconds != 3600 {
		t.Errorf("accumulated pause = %d, want 3600", resumed.PauseSeconds)
	}

	*now = start.Add(9 * time.Hour)
	stopped, err := svc.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	// Two breaks summing to one hour behave like a single one-hour break.
	if stopped.DurationHours != 8 {
		t.Errorf("net duration = %v hours, want 8", stopped.DurationHours)
	}
}

func TestStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	svc, _, now := newTestService(start)

	st, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.State != model.TimerIdle || st.ElapsedSeconds != 0 {
		t.Errorf("idle status = %+v", st)
	}

	if _, err := svc.Start("tracking"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	*now = start.Add(2 * time.Hour)
	st, err = svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.State != model.TimerRunning {
		t.Errorf("state = %s, want running", st.State)
	}
	if st.ElapsedSeconds != 7200 {
		t.Errorf("elapsed = %d, want 7200", st.ElapsedSeconds)
	}
	if st.Description != "tracking" {
		t.Errorf("description = %q", st.Description)
	}

	// Elapsed freezes while paused.
	if _, err := svc.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	*now = start.Add(3 * time.Hour)
	st, err = svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.State != model.TimerPaused {
		t.Errorf("state = %s, want paused", st.State)
	}
	if st.ElapsedSeconds != 7200 {
		t.Errorf("elapsed while paused = %d, want 7200", st.ElapsedSeconds)
	}

	// And resumes counting after the break.
	if _, err := svc.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	*now = start.Add(3*time.Hour + 30*time.Minute)
	st, err = svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.ElapsedSeconds != 9000 {
		t.Errorf("elapsed after resume = %d, want 9000", st.ElapsedSeconds)
	}
}

func TestAddMidnightShift(t *testing.T) {
	svc, _, _ := newTestService(time.Now())
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	entry, err := svc.Add(day, 23*time.Hour, 1*time.Hour, 0, "night shift")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.DurationHours != 2 {
		t.Errorf("duration = %v hours, want 2", entry.DurationHours)
	}
	if entry.Date != "2026-03-02" {
		t.Errorf("entry date = %s, want the start day", entry.Date)
	}
	wantEnd := time.Date(2026, 3, 3, 1, 0, 0, 0, time.Local)
	if entry.EndTime == nil || !entry.EndTime.Equal(wantEnd) {
		t.Errorf("end time = %v, want %v", entry.EndTime, wantEnd)
	}
}

func TestEdit(t *testing.T) {
	svc, _, _ := newTestService(time.Now())
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	entry, err := svc.Add(day, 9*time.Hour, 17*time.Hour, 0, "draft")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	end := start.Add(6*time.Hour + 30*time.Minute)
	edited, err := svc.Edit(entry.ID, start, end, 30*time.Minute, "corrected")
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.DurationHours != 6 {
		t.Errorf("edited duration = %v hours, want 6", edited.DurationHours)
	}
	if edited.Description != "corrected" {
		t.Errorf("description = %q", edited.Description)
	}

	// Reversed range is rejected outright for dated timestamps.
	_, err = svc.Edit(entry.ID, end, start, 0, "")
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Edit with reversed range = %v, want *InvalidRangeError", err)
	}

	// Unknown entries surface as not found.
	_, err = svc.Edit("missing", start, end, 0, "")
	if !errors.Is(err, db.ErrEntryNotFound) {
		t.Fatalf("Edit of missing entry = %v, want ErrEntryNotFound", err)
	}
}

func TestEditRejectsActiveEntry(t *testing.T) {
	svc, _, _ := newTestService(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))

	entry, err := svc.Start("running")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	_, err = svc.Edit(entry.ID, entry.StartTime, entry.StartTime.Add(time.Hour), 0, "")
	if !errors.Is(err, ErrEntryActive) {
		t.Fatalf("Edit of running entry = %v, want ErrEntryActive", err)
	}
}
