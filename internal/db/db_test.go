package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GMouaad/waqt/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestEntryLifecycle(t *testing.T) {
	db := openTestDB(t)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	entry := &model.TimeEntry{
		Date:        "2026-03-02",
		StartTime:   start,
		IsActive:    true,
		Description: "morning work",
	}
	if err := db.CreateEntry(entry); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("CreateEntry did not assign an ID")
	}

	active, err := db.ActiveEntry()
	if err != nil {
		t.Fatalf("ActiveEntry failed: %v", err)
	}
	if active == nil {
		t.Fatal("expected an active entry after create")
	}
	if active.ID != entry.ID {
		t.Errorf("active entry ID = %s, want %s", active.ID, entry.ID)
	}
	if active.State() != model.TimerRunning {
		t.Errorf("state = %s, want running", active.State())
	}

	pausedAt := start.Add(2 * time.Hour)
	if err := db.MarkEntryPaused(entry.ID, pausedAt); err != nil {
		t.Fatalf("MarkEntryPaused failed: %v", err)
	}

	active, err = db.ActiveEntry()
	if err != nil {
		t.Fatalf("ActiveEntry after pause failed: %v", err)
	}
	if active.PauseStartedAt == nil {
		t.Fatal("expected pause_started_at to be set")
	}
	if active.State() != model.TimerPaused {
		t.Errorf("state = %s, want paused", active.State())
	}

	if err := db.MarkEntryResumed(entry.ID, 1800); err != nil {
		t.Fatalf("MarkEntryResumed failed: %v", err)
	}

	active, err = db.ActiveEntry()
	if err != nil {
		t.Fatalf("ActiveEntry after resume failed: %v", err)
	}
	if active.PauseStartedAt != nil {
		t.Error("expected pause_started_at to be cleared after resume")
	}
	if active.PauseSeconds != 1800 {
		t.Errorf("pause_seconds = %d, want 1800", active.PauseSeconds)
	}

	end := start.Add(8*time.Hour + 30*time.Minute)
	if err := db.CloseEntry(entry.ID, end, 1800, 8); err != nil {
		t.Fatalf("CloseEntry failed: %v", err)
	}

	active, err = db.ActiveEntry()
	if err != nil {
		t.Fatalf("ActiveEntry after close failed: %v", err)
	}
	if active != nil {
		t.Fatal("expected no active entry after close")
	}

	stored, err := db.EntryByID(entry.ID)
	if err != nil {
		t.Fatalf("EntryByID failed: %v", err)
	}
	if stored == nil {
		t.Fatal("entry disappeared after close")
	}
	if stored.IsActive {
		t.Error("closed entry still marked active")
	}
	if stored.EndTime == nil || stored.EndTime.Unix() != end.Unix() {
		t.Errorf("end_time = %v, want %v", stored.EndTime, end)
	}
	if stored.DurationHours != 8 {
		t.Errorf("duration_hours = %v, want 8", stored.DurationHours)
	}
}

func TestSingleActiveEntry(t *testing.T) {
	db := openTestDB(t)

	first := &model.TimeEntry{
		Date:      "2026-03-02",
		StartTime: time.Now(),
		IsActive:  true,
	}
	if err := db.CreateEntry(first); err != nil {
		t.Fatalf("first CreateEntry failed: %v", err)
	}

	second := &model.TimeEntry{
		Date:      "2026-03-02",
		StartTime: time.Now(),
		IsActive:  true,
	}
	err := db.CreateEntry(second)
	if !errors.Is(err, ErrActiveEntryExists) {
		t.Fatalf("second CreateEntry error = %v, want ErrActiveEntryExists", err)
	}

	// The partial unique index must reject a second active row even when
	// the transactional check is bypassed.
	_, err = db.Exec(`
		INSERT INTO time_entries (id, date, start_time, is_active, created_at)
		VALUES ('raw', '2026-03-02', ?, 1, ?)
	`, time.Now(), time.Now())
	if err == nil {
		t.Fatal("raw insert of a second active row succeeded, want constraint error")
	}

	// A finalized entry on the same day is fine.
	end := time.Now()
	done := &model.TimeEntry{
		Date:          "2026-03-02",
		StartTime:     end.Add(-time.Hour),
		EndTime:       &end,
		DurationHours: 1,
	}
	if err := db.CreateEntry(done); err != nil {
		t.Fatalf("CreateEntry for finalized entry failed: %v", err)
	}
}

func TestGuardedUpdatesMiss(t *testing.T) {
	db := openTestDB(t)

	end := time.Now()
	entry := &model.TimeEntry{
		Date:          "2026-03-02",
		StartTime:     end.Add(-time.Hour),
		EndTime:       &end,
		DurationHours: 1,
	}
	if err := db.CreateEntry(entry); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	// Pausing a finalized entry must miss the guard.
	err := db.MarkEntryPaused(entry.ID, time.Now())
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("MarkEntryPaused on finalized entry = %v, want ErrEntryNotFound", err)
	}

	err = db.CloseEntry("missing", time.Now(), 0, 0)
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("CloseEntry on missing entry = %v, want ErrEntryNotFound", err)
	}

	err = db.DeleteEntry("missing")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("DeleteEntry on missing entry = %v, want ErrEntryNotFound", err)
	}

	// Resuming a running (not paused) entry must miss as well.
	running := &model.TimeEntry{
		Date:      "2026-03-03",
		StartTime: time.Now(),
		IsActive:  true,
	}
	if err := db.CreateEntry(running); err != nil {
		t.Fatalf("CreateEntry for running entry failed: %v", err)
	}
	err = db.MarkEntryResumed(running.ID, 0)
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("MarkEntryResumed on running entry = %v, want ErrEntryNotFound", err)
	}
}

func TestEntriesBetween(t *testing.T) {
	db := openTestDB(t)

	dates := []string{"2026-03-01", "2026-03-02", "2026-03-05", "2026-04-01"}
	for i, date := range dates {
		start := time.Date(2026, 3, 1+i, 9, 0, 0, 0, time.Local)
		end := start.Add(4 * time.Hour)
		entry := &model.TimeEntry{
			Date:          date,
			StartTime:     start,
			EndTime:       &end,
			DurationHours: 4,
		}
		if err := db.CreateEntry(entry); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	entries, err := db.EntriesBetween("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("EntriesBetween failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries in March, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Date < entries[i-1].Date {
			t.Errorf("entries out of order: %s before %s", entries[i-1].Date, entries[i].Date)
		}
	}

	entries, err = db.EntriesBetween("2026-03-02", "2026-03-02")
	if err != nil {
		t.Fatalf("EntriesBetween single day failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Date != "2026-03-02" {
		t.Fatalf("single-day query returned %d entries", len(entries))
	}
}

func TestLeaveDays(t *testing.T) {
	db := openTestDB(t)

	day, err := db.CreateLeaveDay("2026-07-13", model.LeaveVacation, "summer trip")
	if err != nil {
		t.Fatalf("CreateLeaveDay failed: %v", err)
	}
	if day.ID == "" {
		t.Fatal("CreateLeaveDay did not assign an ID")
	}

	_, err = db.CreateLeaveDay("2026-07-13", model.LeaveSick, "")
	if !errors.Is(err, ErrLeaveDayExists) {
		t.Fatalf("duplicate CreateLeaveDay error = %v, want ErrLeaveDayExists", err)
	}

	if _, err := db.CreateLeaveDay("2026-07-20", model.LeaveSick, ""); err != nil {
		t.Fatalf("CreateLeaveDay failed: %v", err)
	}

	days, err := db.LeaveDaysBetween("2026-07-01", "2026-07-31")
	if err != nil {
		t.Fatalf("LeaveDaysBetween failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d leave days, want 2", len(days))
	}
	if days[0].Type != model.LeaveVacation || days[1].Type != model.LeaveSick {
		t.Errorf("unexpected leave types: %s, %s", days[0].Type, days[1].Type)
	}

	found, err := db.LeaveDayByDate("2026-07-13")
	if err != nil {
		t.Fatalf("LeaveDayByDate failed: %v", err)
	}
	if found == nil || found.ID != day.ID {
		t.Fatal("LeaveDayByDate did not return the recorded day")
	}

	if err := db.DeleteLeaveDay(day.ID); err != nil {
		t.Fatalf("DeleteLeaveDay failed: %v", err)
	}
	err = db.DeleteLeaveDay(day.ID)
	if !errors.Is(err, ErrLeaveDayNotFound) {
		t.Fatalf("second DeleteLeaveDay error = %v, want ErrLeaveDayNotFound", err)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.GetSetting(model.SettingStandardHoursPerDay)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if ok {
		t.Fatal("expected no value for an unset key")
	}

	if err := db.SetSetting(model.SettingStandardHoursPerDay, "8"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	value, ok, err := db.GetSetting(model.SettingStandardHoursPerDay)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "8" {
		t.Fatalf("GetSetting = %q, %v; want \"8\", true", value, ok)
	}

	// Upsert overwrites in place.
	if err := db.SetSetting(model.SettingStandardHoursPerDay, "7.5"); err != nil {
		t.Fatalf("SetSetting update failed: %v", err)
	}
	value, _, err = db.GetSetting(model.SettingStandardHoursPerDay)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "7.5" {
		t.Fatalf("GetSetting after update = %q, want \"7.5\"", value)
	}

	if err := db.SetSetting(model.SettingStandardHoursPerWeek, "40"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	values, err := db.SettingsMap()
	if err != nil {
		t.Fatalf("SettingsMap failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("SettingsMap has %d keys, want 2", len(values))
	}
	if values[model.SettingStandardHoursPerWeek] != "40" {
		t.Errorf("weekly standard = %q, want \"40\"", values[model.SettingStandardHoursPerWeek])
	}
}
