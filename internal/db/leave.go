package db

import (
	"database/sql"
	"time"

	"github.com/GMouaad/waqt/internal/model"
	"github.com/google/uuid"
)

// LeaveDaysBetween returns leave days whose date falls in [from, to], inclusive
func (db *DB) LeaveDaysBetween(from, to string) ([]model.LeaveDay, error) {
	rows, err := db.Query(`
		SELECT id, date, type, description, created_at
		FROM leave_days
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []model.LeaveDay
	for rows.Next() {
		var d model.LeaveDay
		var description *string
		err := rows.Scan(&d.ID, &d.Date, &d.Type, &description, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		if description != nil {
			d.Description = *description
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// LeaveDayByDate returns the leave day recorded for a date, or nil
func (db *DB) LeaveDayByDate(date string) (*model.LeaveDay, error) {
	var d model.LeaveDay
	var description *string

	err := db.QueryRow(`
		SELECT id, date, type, description, created_at
		FROM leave_days WHERE date = ?
	`, date).Scan(&d.ID, &d.Date, &d.Type, &description, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if description != nil {
		d.Description = *description
	}

	return &d, nil
}

// CreateLeaveDay records a full-day absence. A date carries at most one
// leave day, so a second insert for the same date fails.
func (db *DB) CreateLeaveDay(date string, leaveType model.LeaveType, description string) (*model.LeaveDay, error) {
	id := uuid.New().String()
	now := time.Now()

	err := db.Transaction(func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM leave_days WHERE date = ?`, date).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return ErrLeaveDayExists
		}

		_, err := tx.Exec(`
			INSERT INTO leave_days (id, date, type, description, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, date, leaveType, description, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &model.LeaveDay{
		ID:          id,
		Date:        date,
		Type:        leaveType,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// DeleteLeaveDay deletes a leave day
func (db *DB) DeleteLeaveDay(id string) error {
	res, err := db.Exec(`DELETE FROM leave_days WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLeaveDayNotFound
	}
	return nil
}
