package equipment

import (
	"errors"
	"strings"
	"time"
)

// Condition values, best to worst.
const (
	ConditionNew     = "new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
	ConditionRetired = "retired"
)

// ValidConditions lists all condition values.
var ValidConditions = []string{ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionRetired}

// Categories commonly issued to cadets.
const (
	CategoryUniform = "uniform"
	CategoryDrill   = "drill"
	CategoryFitness = "fitness"
	CategoryOther   = "other"
)

// Domain errors
var (
	ErrNameRequired     = errors.New("item name is required")
	ErrInvalidCondition = errors.New("condition must be one of: new, good, fair, poor, retired")
	ErrAlreadyAssigned  = errors.New("item is already assigned")
	ErrNotAssigned      = errors.New("item is not assigned")
	ErrRetired          = errors.New("retired items cannot be assigned")
	ErrCadetRequired    = errors.New("cadet is required")
)

// Item is a piece of equipment tracked by the unit.
type Item struct {
	ID              string
	Name            string
	Category        string
	SerialNumber    string
	Size            string
	Condition       string
	AssignedCadetID string
	AssignedAt      time.Time
	Notes           string
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrNameRequired
	}
	for _, c := range ValidConditions {
		if c == i.Condition {
			return nil
		}
	}
	return ErrInvalidCondition
}

// IsAssigned reports whether the item is currently issued to a cadet.
func (i *Item) IsAssigned() bool {
	return i.AssignedCadetID != ""
}

// IsAvailable reports whether the item can be issued.
func (i *Item) IsAvailable() bool {
	return !i.IsAssigned() && i.Condition != ConditionRetired
}

// Assign issues the item to a cadet.
// PRE: Item is not assigned and not retired
// POST: AssignedCadetID and AssignedAt are set
func (i *Item) Assign(cadetID string, at time.Time) error {
	if cadetID == "" {
		return ErrCadetRequired
	}
	if i.Condition == ConditionRetired {
		return ErrRetired
	}
	if i.IsAssigned() {
		return ErrAlreadyAssigned
	}
	i.AssignedCadetID = cadetID
	i.AssignedAt = at
	return nil
}

// Return takes the item back, optionally recording a new condition.
// PRE: Item is assigned
// POST: Assignment cleared; Condition updated when condition is non-empty
func (i *Item) Return(condition string) error {
	if !i.IsAssigned() {
		return ErrNotAssigned
	}
	if condition != "" {
		prev := i.Condition
		i.Condition = condition
		if err := i.Validate(); err != nil {
			i.Condition = prev
			return err
		}
	}
	i.AssignedCadetID = ""
	i.AssignedAt = time.Time{}
	return nil
}
