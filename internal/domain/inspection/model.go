package inspection

import (
	"errors"
	"time"
)

// PassingScore is the minimum score for a passed inspection.
const PassingScore = 70

// Domain errors
var (
	ErrCadetRequired   = errors.New("cadet is required")
	ErrDateRequired    = errors.New("inspection date is required")
	ErrScoreOutOfRange = errors.New("score must be between 0 and 100")
	ErrNotesTooLong    = errors.New("notes cannot exceed 500 characters")
)

// Inspection is a uniform inspection result for a cadet.
type Inspection struct {
	ID          string
	CadetID     string
	InspectedAt time.Time
	Score       int
	Passed      bool
	Inspector   string
	Notes       string
}

// Validate checks if the Inspection has valid data.
// PRE: Inspection struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Inspection) Validate() error {
	if i.CadetID == "" {
		return ErrCadetRequired
	}
	if i.InspectedAt.IsZero() {
		return ErrDateRequired
	}
	if i.Score < 0 || i.Score > 100 {
		return ErrScoreOutOfRange
	}
	if len(i.Notes) > 500 {
		return ErrNotesTooLong
	}
	return nil
}

// Grade sets Passed from the score.
// POST: Passed reflects Score >= PassingScore
func (i *Inspection) Grade() {
	i.Passed = i.Score >= PassingScore
}
