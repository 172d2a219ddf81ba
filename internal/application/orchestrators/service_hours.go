package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/servicehours"
)

// ServiceHoursStore defines the store interface needed by the service-hours orchestrators.
type ServiceHoursStore interface {
	GetByID(ctx context.Context, id string) (servicehours.Record, error)
	Save(ctx context.Context, r servicehours.Record) error
}

// ServiceHoursDeps holds dependencies for the service-hours orchestrators.
type ServiceHoursDeps struct {
	ServiceStore ServiceHoursStore
	Cadets       CadetLookup
	Audit        AuditRecorder
	GenerateID   func() string
	Now          func() time.Time
}

// LogServiceHoursInput carries one service entry. Hours is a decimal string such as "2.5".
type LogServiceHoursInput struct {
	CadetID      string
	ServiceDate  string
	Organization string
	Description  string
	Hours        string
	Actor        Actor
}

// ExecuteLogServiceHours records a pending service entry.
// PRE: Cadet exists; a cadet actor may only log for their own linked cadet
// POST: Record stored with status pending
func ExecuteLogServiceHours(ctx context.Context, input LogServiceHoursInput, deps ServiceHoursDeps) (servicehours.Record, error) {
	c, err := deps.Cadets.GetByID(ctx, input.CadetID)
	if err != nil {
		return servicehours.Record{}, ErrNotFound
	}
	if input.Actor.Role == account.RoleCadet && c.AccountID != input.Actor.AccountID {
		return servicehours.Record{}, ErrForbidden
	}
	date, err := parseDate("service date", input.ServiceDate)
	if err != nil {
		return servicehours.Record{}, err
	}
	hours, err := decimal.NewFromString(strings.TrimSpace(input.Hours))
	if err != nil {
		return servicehours.Record{}, invalid(servicehours.ErrHoursOutOfRange)
	}

	now := deps.Now()
	r := servicehours.Record{
		ID:           deps.GenerateID(),
		CadetID:      c.ID,
		ServiceDate:  date,
		Organization: strings.TrimSpace(input.Organization),
		Description:  strings.TrimSpace(input.Description),
		Hours:        hours,
		Status:       servicehours.StatusPending,
		CreatedAt:    now,
	}
	if err := r.Validate(); err != nil {
		return servicehours.Record{}, invalid(err)
	}
	if err := deps.ServiceStore.Save(ctx, r); err != nil {
		return servicehours.Record{}, err
	}
	slog.Info("service_hours_logged", "cadet_id", r.CadetID, "hours", r.Hours.String())
	return r, nil
}

// ReviewServiceHoursInput approves or rejects an entry.
type ReviewServiceHoursInput struct {
	RecordID string
	Decision string
	Actor    Actor
}

// ExecuteReviewServiceHours moves a pending entry to approved or rejected.
// PRE: Record is pending; actor is staff
// POST: Status, ReviewedBy and ReviewedAt set
func ExecuteReviewServiceHours(ctx context.Context, input ReviewServiceHoursInput, deps ServiceHoursDeps) (servicehours.Record, error) {
	r, err := deps.ServiceStore.GetByID(ctx, input.RecordID)
	if err != nil {
		return servicehours.Record{}, ErrNotFound
	}
	now := deps.Now()
	if err := r.Review(strings.ToLower(strings.TrimSpace(input.Decision)), input.Actor.Email, now); err != nil {
		return servicehours.Record{}, invalid(err)
	}
	if err := deps.ServiceStore.Save(ctx, r); err != nil {
		return servicehours.Record{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryService, audit.ActionReview, now).
		WithResource("service_hours", r.ID).
		WithDescription(r.Status+" "+r.Hours.String()+" hours"))
	return r, nil
}
