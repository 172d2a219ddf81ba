package orchestrators

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form accepted from clients.
const DateLayout = "2006-01-02"

// parseDate parses a required YYYY-MM-DD value; label names the field in the error.
func parseDate(label, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, &ValidationError{Message: label + " is required"}
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, &ValidationError{Message: label + " must be YYYY-MM-DD"}
	}
	return t, nil
}
