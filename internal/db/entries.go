package db

import (
	"database/sql"
	"time"

	"github.com/GMouaad/waqt/internal/model"
	"github.com/google/uuid"
)

// ActiveEntry returns the currently running entry, or nil if the timer is idle
func (db *DB) ActiveEntry() (*model.TimeEntry, error) {
	row := db.QueryRow(`
		SELECT id, date, start_time, end_time, duration_hours, pause_seconds,
		       pause_started_at, is_active, description, created_at
		FROM time_entries
		WHERE is_active = 1
	`)

	e, err := db.scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// EntryByID returns a single entry by ID, or nil if it does not exist
func (db *DB) EntryByID(id string) (*model.TimeEntry, error) {
	row := db.QueryRow(`
		SELECT id, date, start_time, end_time, duration_hours, pause_seconds,
		       pause_started_at, is_active, description, created_at
		FROM time_entries
		WHERE id = ?
	`, id)

	e, err := db.scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// EntriesBetween returns entries whose date falls in [from, to], inclusive.
// Dates are YYYY-MM-DD strings.
func (db *DB) EntriesBetween(from, to string) ([]model.TimeEntry, error) {
	rows, err := db.Query(`
		SELECT id, date, start_time, end_time, duration_hours, pause_seconds,
		       pause_started_at, is_active, description, created_at
		FROM time_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date, start_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.scanEntries(rows)
}

// CreateEntry inserts a new entry, filling in ID and CreatedAt when unset.
// When the entry is active, the insert runs inside a transaction that first
// checks for an existing active entry, so two concurrent starts cannot both
// succeed. The partial unique index on is_active backs this up at the schema
// level.
func (db *DB) CreateEntry(e *model.TimeEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	if !e.IsActive {
		_, err := db.Exec(`
			INSERT INTO time_entries (id, date, start_time, end_time, duration_hours,
			                          pause_seconds, pause_started_at, is_active,
			                          description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		`, e.ID, e.Date, e.StartTime, e.EndTime, e.DurationHours,
			e.PauseSeconds, e.PauseStartedAt, e.Description, e.CreatedAt)
		return err
	}

	return db.Transaction(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM time_entries WHERE is_active = 1`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return ErrActiveEntryExists
		}

		_, err := tx.Exec(`
			INSERT INTO time_entries (id, date, start_time, end_time, duration_hours,
			                          pause_seconds, pause_started_at, is_active,
			                          description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		`, e.ID, e.Date, e.StartTime, e.EndTime, e.DurationHours,
			e.PauseSeconds, e.PauseStartedAt, e.Description, e.CreatedAt)
		return err
	})
}

// MarkEntryPaused records the start of a pause on the running entry.
// The update only matches an active, unpaused row; a miss means the entry
// changed state underneath the caller.
func (db *DB) MarkEntryPaused(id string, at time.Time) error {
	res, err := db.Exec(`
		UPDATE time_entries SET pause_started_at = ?
		WHERE id = ? AND is_active = 1 AND pause_started_at IS NULL
	`, at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkEntryResumed ends the current pause, storing the new accumulated total
func (db *DB) MarkEntryResumed(id string, pauseSeconds int64) error {
	res, err := db.Exec(`
		UPDATE time_entries SET pause_seconds = ?, pause_started_at = NULL
		WHERE id = ? AND is_active = 1 AND pause_started_at IS NOT NULL
	`, pauseSeconds, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CloseEntry finalizes the running entry with its end time, total pause and
// computed duration, releasing the active slot
func (db *DB) CloseEntry(id string, end time.Time, pauseSeconds int64, hours float64) error {
	res, err := db.Exec(`
		UPDATE time_entries
		SET end_time = ?, pause_seconds = ?, pause_started_at = NULL,
		    is_active = 0, duration_hours = ?
		WHERE id = ? AND is_active = 1
	`, end, pauseSeconds, hours, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateEntry rewrites a finalized entry after an edit. The running entry
// cannot be edited; stop it first.
func (db *DB) UpdateEntry(e *model.TimeEntry) error {
	res, err := db.Exec(`
		UPDATE time_entries
		SET date = ?, start_time = ?, end_time = ?, duration_hours = ?,
		    pause_seconds = ?, description = ?
		WHERE id = ? AND is_active = 0
	`, e.Date, e.StartTime, e.EndTime, e.DurationHours,
		e.PauseSeconds, e.Description, e.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteEntry deletes an entry
func (db *DB) DeleteEntry(id string) error {
	res, err := db.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Helper functions

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (db *DB) scanEntries(rows *sql.Rows) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	for rows.Next() {
		e, err := db.scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (db *DB) scanEntry(row *sql.Row) (*model.TimeEntry, error) {
	return db.scanEntryRow(row)
}

func (db *DB) scanEntryRow(s scanner) (*model.TimeEntry, error) {
	var e model.TimeEntry
	var endTime, pauseStartedAt *time.Time
	var description *string
	var isActive int

	err := s.Scan(
		&e.ID, &e.Date, &e.StartTime, &endTime, &e.DurationHours,
		&e.PauseSeconds, &pauseStartedAt, &isActive, &description, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.EndTime = endTime
	e.PauseStartedAt = pauseStartedAt
	e.IsActive = isActive == 1
	if description != nil {
		e.Description = *description
	}

	return &e, nil
}
