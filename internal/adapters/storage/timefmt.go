package storage

import (
	"fmt"
	"time"
)

// TimeLayout is the storage format for timestamps.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// DateLayout is the storage format for calendar dates.
const DateLayout = "2006-01-02"

// FormatTime renders t for a TEXT column.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NullableTime renders t for a nullable TEXT column; the zero time becomes NULL.
func NullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return FormatTime(t)
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTime accepts the formats written by this package and by SQLite's datetime functions.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		DateLayout,
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
