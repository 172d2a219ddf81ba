package servicehours

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status values
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxHoursPerEntry caps a single day's entry.
var MaxHoursPerEntry = decimal.NewFromInt(24)

// Domain errors
var (
	ErrCadetRequired        = errors.New("cadet is required")
	ErrDateRequired         = errors.New("service date is required")
	ErrOrganizationRequired = errors.New("organization is required")
	ErrHoursOutOfRange      = errors.New("hours must be greater than 0 and at most 24")
	ErrNotPending           = errors.New("record has already been reviewed")
	ErrInvalidDecision      = errors.New("decision must be 'approved' or 'rejected'")
)

// Record is one community-service entry logged by or for a cadet.
type Record struct {
	ID           string
	CadetID      string
	ServiceDate  time.Time
	Organization string
	Description  string
	Hours        decimal.Decimal
	Status       string
	ReviewedBy   string
	ReviewedAt   time.Time
	CreatedAt    time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.CadetID == "" {
		return ErrCadetRequired
	}
	if r.ServiceDate.IsZero() {
		return ErrDateRequired
	}
	if strings.TrimSpace(r.Organization) == "" {
		return ErrOrganizationRequired
	}
	if !r.Hours.IsPositive() || r.Hours.GreaterThan(MaxHoursPerEntry) {
		return ErrHoursOutOfRange
	}
	return nil
}

// Review approves or rejects a pending record.
// PRE: Record is pending; decision is approved or rejected
// POST: Status, ReviewedBy and ReviewedAt are set
func (r *Record) Review(decision, reviewer string, at time.Time) error {
	if decision != StatusApproved && decision != StatusRejected {
		return ErrInvalidDecision
	}
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = decision
	r.ReviewedBy = reviewer
	r.ReviewedAt = at
	return nil
}

// Totals sums hours by status for one cadet.
type Totals struct {
	Approved decimal.Decimal
	Pending  decimal.Decimal
	Rejected decimal.Decimal
}

// Sum aggregates records into Totals.
func Sum(records []Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Status {
		case StatusApproved:
			t.Approved = t.Approved.Add(r.Hours)
		case StatusPending:
			t.Pending = t.Pending.Add(r.Hours)
		case StatusRejected:
			t.Rejected = t.Rejected.Add(r.Hours)
		}
	}
	return t
}
