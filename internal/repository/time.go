package repository

import (
	"errors"
	"time"
)

// Timestamps are stored as fixed-width UTC text so that lexical order in
// SQLite matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
