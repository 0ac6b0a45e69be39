package db

import (
	"database/sql"
	"time"

	"github.com/GMouaad/waqt/internal/model"
)

// Settings returns all stored settings ordered by key
func (db *DB) Settings() ([]model.Setting, error) {
	rows, err := db.Query(`
		SELECT key, value, updated_at
		FROM settings
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.Setting
	for rows.Next() {
		var s model.Setting
		err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// SettingsMap returns all stored settings as a key/value map
func (db *DB) SettingsMap() (map[string]string, error) {
	settings, err := db.Settings()
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// GetSetting returns a setting value and whether the key exists
func (db *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores a setting value, inserting or updating as needed
func (db *DB) SetSetting(key, value string) error {
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	return err
}
