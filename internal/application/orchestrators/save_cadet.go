package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	cadetStore "jrotc/internal/adapters/storage/cadet"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
)

// CadetStoreForSave defines the store interface needed by SaveCadet.
type CadetStoreForSave interface {
	GetByID(ctx context.Context, id string) (cadet.Cadet, error)
	GetByEmail(ctx context.Context, email string) (cadet.Cadet, error)
	Save(ctx context.Context, c cadet.Cadet) error
}

// ReferenceLoader supplies the reference lists cadets are validated against.
type ReferenceLoader interface {
	References(ctx context.Context) (cadet.References, error)
}

// SaveCadetInput carries the submitted cadet. An empty ID creates a new cadet.
type SaveCadetInput struct {
	Cadet cadet.Cadet
	Actor Actor
}

// SaveCadetDeps holds dependencies for SaveCadet.
type SaveCadetDeps struct {
	CadetStore  CadetStoreForSave
	References  ReferenceLoader
	GradeConfig cadet.GradeConfig
	Audit       AuditRecorder
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteSaveCadet validates and stores a cadet.
// PRE: Actor is staff
// POST: On success the stored cadet is returned with RoleID canonicalized to the role ID
// POST: On invalid input a *ValidationError carrying every problem is returned and nothing is written
// INVARIANT: AccountID is never changed by this operation
func ExecuteSaveCadet(ctx context.Context, input SaveCadetInput, deps SaveCadetDeps) (cadet.Cadet, error) {
	c := input.Cadet
	creating := c.ID == ""

	if !creating {
		existing, err := deps.CadetStore.GetByID(ctx, c.ID)
		if err != nil {
			return cadet.Cadet{}, ErrNotFound
		}
		c.AccountID = existing.AccountID
		if c.Status == "" {
			c.Status = existing.Status
		}
	} else {
		c.AccountID = ""
	}

	now := deps.Now()
	c.Normalize()
	c.ApplyAutoGrade(now, deps.GradeConfig)

	refs, err := deps.References.References(ctx)
	if err != nil {
		return cadet.Cadet{}, err
	}
	problems := c.Validate(refs)
	other, err := deps.CadetStore.GetByEmail(ctx, c.Email)
	switch {
	case err == nil && other.ID != c.ID:
		problems = append(problems, cadet.Problem{Field: cadet.FieldEmail, Code: cadet.CodeInvalid, Message: "Email is already used by another cadet"})
	case err != nil && !errors.Is(err, cadetStore.ErrNotFound):
		return cadet.Cadet{}, err
	}
	if !problems.Valid() {
		return cadet.Cadet{}, &ValidationError{Problems: problems}
	}
	if role, ok := refs.FindRole(c.RoleID); ok {
		c.RoleID = role.ID
	}

	if creating {
		c.ID = deps.GenerateID()
	}
	if err := deps.CadetStore.Save(ctx, c); err != nil {
		return cadet.Cadet{}, err
	}

	action := audit.ActionUpdate
	if creating {
		action = audit.ActionCreate
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryCadet, action, now).
		WithResource("cadet", c.ID).
		WithDescription(c.FullName()))

	slog.Info("cadet_saved", "cadet_id", c.ID, "created", creating, "actor", input.Actor.AccountID)
	return c, nil
}

// SetCadetStatusInput carries input for activating or deactivating a cadet.
type SetCadetStatusInput struct {
	CadetID string
	Active  bool
	Actor   Actor
}

// SetCadetStatusDeps holds dependencies for SetCadetStatus.
type SetCadetStatusDeps struct {
	CadetStore interface {
		GetByID(ctx context.Context, id string) (cadet.Cadet, error)
		Save(ctx context.Context, c cadet.Cadet) error
	}
	Audit AuditRecorder
	Now   func() time.Time
}

// ExecuteSetCadetStatus activates or deactivates a cadet.
// PRE: Cadet exists and is not already in the requested status
// POST: Status updated
func ExecuteSetCadetStatus(ctx context.Context, input SetCadetStatusInput, deps SetCadetStatusDeps) (cadet.Cadet, error) {
	c, err := deps.CadetStore.GetByID(ctx, input.CadetID)
	if err != nil {
		return cadet.Cadet{}, ErrNotFound
	}
	if input.Active {
		err = c.Reactivate()
	} else {
		err = c.Deactivate()
	}
	if err != nil {
		return cadet.Cadet{}, invalid(err)
	}
	if err := deps.CadetStore.Save(ctx, c); err != nil {
		return cadet.Cadet{}, err
	}

	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryCadet, audit.ActionUpdate, deps.Now()).
		WithResource("cadet", c.ID).
		WithDescription("status set to "+c.Status))
	return c, nil
}
