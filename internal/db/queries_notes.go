package db

import (
	"database/sql"
	"fmt"
)

// GetNote retrieves a note by key. A missing key returns "".
func (d *DB) GetNote(key string) (string, error) {
	var value string
	err := d.conn.QueryRow("SELECT value FROM notes WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting note %q: %w", key, err)
	}
	return value, nil
}

// SetNote stores or replaces a note.
func (d *DB) SetNote(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting note: key is required")
	}
	_, err := d.conn.Exec(
		`INSERT INTO notes (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting note %q: %w", key, err)
	}
	return nil
}
