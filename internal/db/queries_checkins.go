package db

import (
	"database/sql"
	"fmt"
)

// CheckIn is a delivered morning or evening message.
type CheckIn struct {
	ID        int64  `json:"id"`
	Phase     string `json:"phase"`
	Day       string `json:"day"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// CreateCheckIn records a delivered message for a day.
func (d *DB) CreateCheckIn(phase, day, message string) (int64, error) {
	res, err := d.conn.Exec(
		"INSERT INTO check_ins (phase, day, message) VALUES (?, ?, ?)",
		phase, day, message,
	)
	if err != nil {
		return 0, fmt.Errorf("creating check-in: %w", err)
	}
	return res.LastInsertId()
}

// GetLastCheckIn returns the most recent check-in, or nil if there are none.
func (d *DB) GetLastCheckIn() (*CheckIn, error) {
	var c CheckIn
	err := d.conn.QueryRow(
		"SELECT id, phase, day, message, created_at FROM check_ins ORDER BY id DESC LIMIT 1",
	).Scan(&c.ID, &c.Phase, &c.Day, &c.Message, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting last check-in: %w", err)
	}
	return &c, nil
}
