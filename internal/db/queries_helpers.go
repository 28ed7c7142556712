package db

import (
	"encoding/json"
	"fmt"
	"time"
)

func nullStr(s string) any {
	if s == "" || s == "null" {
		return nil
	}
	return s
}

// encodeList stores a string list as a JSON array; nil becomes "[]".
func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items) // []string marshal cannot fail
	return string(b)
}

func decodeList(raw, column string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	return out, nil
}

// Now returns the current UTC time in the layout SQLite uses for datetime('now').
func Now() string {
	return time.Now().UTC().Format(timeLayout)
}

// ParseTime parses a timestamp written by Now or by SQLite.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
