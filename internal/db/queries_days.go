package db

import (
	"database/sql"
	"fmt"

	"github.com/chris/daycontrol/internal/planner"
)

// Day is the stored planning record for one calendar date.
type Day struct {
	Date  string `json:"date"`
	RunID string `json:"run_id,omitempty"`
	planner.State
	MorningAt string `json:"morning_at,omitempty"`
	EveningAt string `json:"evening_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Planned reports whether the morning pipeline has run for this day.
func (d Day) Planned() bool { return d.MorningAt != "" }

// Reviewed reports whether the evening pipeline has run for this day.
func (d Day) Reviewed() bool { return d.EveningAt != "" }

const dayColumns = `date, COALESCE(run_id,''), energy_level, sleep_hours, tasks, selected_tasks,
	completed_tasks, distractions, score, suggestion, COALESCE(morning_at,''),
	COALESCE(evening_at,''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// SaveDay inserts or replaces the record for day.Date.
func (d *DB) SaveDay(day Day) error {
	if day.Date == "" {
		return fmt.Errorf("saving day: date is required")
	}
	if err := planner.Validate(day.State); err != nil {
		return fmt.Errorf("saving day %s: %w", day.Date, err)
	}
	_, err := d.conn.Exec(`
		INSERT INTO days (date, run_id, energy_level, sleep_hours, tasks, selected_tasks,
			completed_tasks, distractions, score, suggestion, morning_at, evening_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			run_id = excluded.run_id,
			energy_level = excluded.energy_level,
			sleep_hours = excluded.sleep_hours,
			tasks = excluded.tasks,
			selected_tasks = excluded.selected_tasks,
			completed_tasks = excluded.completed_tasks,
			distractions = excluded.distractions,
			score = excluded.score,
			suggestion = excluded.suggestion,
			morning_at = excluded.morning_at,
			evening_at = excluded.evening_at,
			updated_at = datetime('now')`,
		day.Date, nullStr(day.RunID), day.EnergyLevel, day.SleepHours,
		encodeList(day.Tasks), encodeList(day.SelectedTasks),
		encodeList(day.CompletedTasks), encodeList(day.Distractions),
		day.Score, day.Suggestion, nullStr(day.MorningAt), nullStr(day.EveningAt),
	)
	if err != nil {
		return fmt.Errorf("saving day %s: %w", day.Date, err)
	}
	return nil
}

// GetDay returns the record for date, or nil if none exists.
func (d *DB) GetDay(date string) (*Day, error) {
	day, err := scanDay(d.conn.QueryRow("SELECT "+dayColumns+" FROM days WHERE date = ?", date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting day %s: %w", date, err)
	}
	return day, nil
}

// ListDays returns the most recent days first.
func (d *DB) ListDays(limit int) ([]Day, error) {
	if limit <= 0 {
		limit = 7
	}
	rows, err := d.conn.Query("SELECT "+dayColumns+" FROM days ORDER BY date DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}
	defer rows.Close()
	var out []Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		out = append(out, *day)
	}
	return out, rows.Err()
}

// AddCompleted appends a finished task to the day's completed list.
func (d *DB) AddCompleted(date, task string) (*Day, error) {
	return d.appendToDay(date, "completed_tasks", task)
}

// AddDistraction appends a distraction to the day's list.
func (d *DB) AddDistraction(date, text string) (*Day, error) {
	return d.appendToDay(date, "distractions", text)
}

func (d *DB) appendToDay(date, column, value string) (*Day, error) {
	if value == "" {
		return nil, fmt.Errorf("adding to %s: value is required", column)
	}
	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	day, err := scanDay(tx.QueryRow("SELECT "+dayColumns+" FROM days WHERE date = ?", date))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no day recorded for %s", date)
	}
	if err != nil {
		return nil, fmt.Errorf("getting day %s: %w", date, err)
	}

	var list []string
	switch column {
	case "completed_tasks":
		day.CompletedTasks = append(day.CompletedTasks, value)
		list = day.CompletedTasks
	case "distractions":
		day.Distractions = append(day.Distractions, value)
		list = day.Distractions
	default:
		return nil, fmt.Errorf("disallowed column %q for days", column)
	}

	query := fmt.Sprintf("UPDATE days SET %s = ?, updated_at = datetime('now') WHERE date = ?", column)
	if _, err := tx.Exec(query, encodeList(list), date); err != nil {
		return nil, fmt.Errorf("updating %s for %s: %w", column, date, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s for %s: %w", column, date, err)
	}
	return day, nil
}

func scanDay(row rowScanner) (*Day, error) {
	var day Day
	var tasks, selected, completed, distractions string
	err := row.Scan(&day.Date, &day.RunID, &day.EnergyLevel, &day.SleepHours,
		&tasks, &selected, &completed, &distractions, &day.Score, &day.Suggestion,
		&day.MorningAt, &day.EveningAt, &day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if day.Tasks, err = decodeList(tasks, "tasks"); err != nil {
		return nil, err
	}
	if day.SelectedTasks, err = decodeList(selected, "selected_tasks"); err != nil {
		return nil, err
	}
	if day.CompletedTasks, err = decodeList(completed, "completed_tasks"); err != nil {
		return nil, err
	}
	if day.Distractions, err = decodeList(distractions, "distractions"); err != nil {
		return nil, err
	}
	return &day, nil
}
