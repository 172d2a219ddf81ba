package cadet

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Domain errors
var (
	ErrAlreadyInactive = errors.New("cadet is already inactive")
	ErrAlreadyActive   = errors.New("cadet is already active")
)

// Cadet holds the profile of a student enrolled in the program.
type Cadet struct {
	ID        string
	AccountID string
	FirstName string
	LastName  string
	Email     string
	RoleID    string
	Grade     string
	Flight    string
	Rank      string
	CadetYear string
	StartYear int
	Status    string
}

// Record returns the validator view of the cadet.
// INVARIANT: Cadet fields are not mutated
func (c *Cadet) Record() Record {
	return Record{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		RoleID:    c.RoleID,
		Grade:     c.Grade,
		Flight:    c.Flight,
		Rank:      c.Rank,
		CadetYear: c.CadetYear,
	}
}

// Validate checks the cadet against the field rules and the supplied reference lists.
// PRE: Cadet struct is initialized
// POST: Returns an empty Problems list when the cadet is valid
func (c *Cadet) Validate(refs References) Problems {
	problems := ValidateRecord(c.Record(), refs)
	if len(c.FirstName) > MaxNameLength {
		problems = append(problems, Problem{Field: FieldFirstName, Code: CodeTooLong, Message: "First name cannot exceed 100 characters"})
	}
	if len(c.LastName) > MaxNameLength {
		problems = append(problems, Problem{Field: FieldLastName, Code: CodeTooLong, Message: "Last name cannot exceed 100 characters"})
	}
	if c.Status != StatusActive && c.Status != StatusInactive {
		problems = append(problems, Problem{Field: FieldStatus, Code: CodeInvalid, Message: "Status must be 'active' or 'inactive'"})
	}
	return problems
}

// Normalize trims whitespace and lower-cases the email address.
// POST: string fields carry no surrounding whitespace
func (c *Cadet) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.RoleID = strings.TrimSpace(c.RoleID)
	c.Grade = strings.TrimSpace(c.Grade)
	c.Flight = strings.TrimSpace(c.Flight)
	c.Rank = strings.TrimSpace(c.Rank)
	c.CadetYear = strings.TrimSpace(c.CadetYear)
	if c.Status == "" {
		c.Status = StatusActive
	}
}

// FullName returns "Last, First" as shown on rosters.
func (c *Cadet) FullName() string {
	switch {
	case c.LastName == "":
		return c.FirstName
	case c.FirstName == "":
		return c.LastName
	}
	return c.LastName + ", " + c.FirstName
}

// IsActive returns true if the cadet is currently active.
// INVARIANT: Status field is not mutated
func (c *Cadet) IsActive() bool {
	return c.Status == StatusActive
}

// Deactivate sets the cadet status to inactive.
// PRE: Cadet is active
// POST: Status is inactive
func (c *Cadet) Deactivate() error {
	if c.Status == StatusInactive {
		return ErrAlreadyInactive
	}
	c.Status = StatusInactive
	return nil
}

// Reactivate sets the cadet status back to active.
// PRE: Cadet is inactive
// POST: Status is active
func (c *Cadet) Reactivate() error {
	if c.Status == StatusActive {
		return ErrAlreadyActive
	}
	c.Status = StatusActive
	return nil
}
