package pttest

import (
	"errors"
	"strings"
	"time"
)

// Max values accepted for a single test, to catch typos at entry.
const (
	MaxRepetitions = 500
	MaxSeconds     = 60 * 60
	MaxNotesLength = 500
)

// Domain errors
var (
	ErrCadetRequired    = errors.New("cadet is required")
	ErrDateRequired     = errors.New("test date is required")
	ErrNegativeCount    = errors.New("repetition counts cannot be negative")
	ErrCountTooHigh     = errors.New("repetition count exceeds 500")
	ErrTimeOutOfRange   = errors.New("timed events must be between 0 and 60 minutes")
	ErrNotesTooLong     = errors.New("notes cannot exceed 500 characters")
	ErrInvalidTimeInput = errors.New("time must be M:SS or seconds")
)

// Test is one physical-fitness assessment of a cadet.
// PlankSeconds and MileSeconds are zero when the event was not taken.
type Test struct {
	ID           string
	CadetID      string
	TestDate     time.Time
	PushUps      int
	SitUps       int
	PlankSeconds int
	MileSeconds  int
	Notes        string
	RecordedBy   string
	CreatedAt    time.Time
}

// Validate checks if the Test has valid data.
// PRE: Test struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Test) Validate() error {
	if t.CadetID == "" {
		return ErrCadetRequired
	}
	if t.TestDate.IsZero() {
		return ErrDateRequired
	}
	if t.PushUps < 0 || t.SitUps < 0 {
		return ErrNegativeCount
	}
	if t.PushUps > MaxRepetitions || t.SitUps > MaxRepetitions {
		return ErrCountTooHigh
	}
	if t.PlankSeconds < 0 || t.PlankSeconds > MaxSeconds || t.MileSeconds < 0 || t.MileSeconds > MaxSeconds {
		return ErrTimeOutOfRange
	}
	if len(t.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// PlankTime returns the plank hold as "M:SS", or "" when not taken.
func (t *Test) PlankTime() string {
	return FormatSecondsToTime(t.PlankSeconds)
}

// MileTime returns the mile run as "M:SS", or "" when not taken.
func (t *Test) MileTime() string {
	return FormatSecondsToTime(t.MileSeconds)
}

// ParseOptionalTime parses a form value into seconds. Blank input means "not taken" and yields 0.
// POST: Returns ErrInvalidTimeInput when the value is present but unparseable
func ParseOptionalTime(text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	n, ok := ParseTimeToSeconds(text)
	if !ok {
		return 0, ErrInvalidTimeInput
	}
	return n, nil
}
