package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
	"jrotc/internal/domain/inspection"
	"jrotc/internal/domain/pttest"
)

// CadetLookup resolves a cadet by ID.
type CadetLookup interface {
	GetByID(ctx context.Context, id string) (cadet.Cadet, error)
}

// RecordPTTestInput carries a PT test as entered. Times are M:SS or plain seconds; blank means not taken.
type RecordPTTestInput struct {
	CadetID   string
	TestDate  string
	PushUps   int
	SitUps    int
	PlankTime string
	MileTime  string
	Notes     string
	Actor     Actor
}

// PTTestDeps holds dependencies for the PT test orchestrators.
type PTTestDeps struct {
	Cadets      CadetLookup
	PTTestStore interface {
		GetByID(ctx context.Context, id string) (pttest.Test, error)
		Save(ctx context.Context, t pttest.Test) error
		Delete(ctx context.Context, id string) error
	}
	Audit      AuditRecorder
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRecordPTTest converts entered times to seconds and stores the test.
// PRE: Cadet exists
// POST: Test stored with PlankSeconds/MileSeconds (0 when not taken)
func ExecuteRecordPTTest(ctx context.Context, input RecordPTTestInput, deps PTTestDeps) (pttest.Test, error) {
	if _, err := deps.Cadets.GetByID(ctx, input.CadetID); err != nil {
		return pttest.Test{}, ErrNotFound
	}
	date, err := parseDate("test date", input.TestDate)
	if err != nil {
		return pttest.Test{}, err
	}
	plank, err := pttest.ParseOptionalTime(input.PlankTime)
	if err != nil {
		return pttest.Test{}, &ValidationError{Message: "plank: " + err.Error()}
	}
	mile, err := pttest.ParseOptionalTime(input.MileTime)
	if err != nil {
		return pttest.Test{}, &ValidationError{Message: "mile: " + err.Error()}
	}

	now := deps.Now()
	t := pttest.Test{
		ID:           deps.GenerateID(),
		CadetID:      input.CadetID,
		TestDate:     date,
		PushUps:      input.PushUps,
		SitUps:       input.SitUps,
		PlankSeconds: plank,
		MileSeconds:  mile,
		Notes:        input.Notes,
		RecordedBy:   input.Actor.AccountID,
		CreatedAt:    now,
	}
	if err := t.Validate(); err != nil {
		return pttest.Test{}, invalid(err)
	}
	if err := deps.PTTestStore.Save(ctx, t); err != nil {
		return pttest.Test{}, err
	}

	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryFitness, audit.ActionCreate, now).
		WithResource("pt_test", t.ID))
	slog.Info("pt_test_recorded", "cadet_id", t.CadetID, "test_id", t.ID)
	return t, nil
}

// DeletePTTestInput identifies the test to remove.
type DeletePTTestInput struct {
	TestID string
	Actor  Actor
}

// ExecuteDeletePTTest removes a PT test.
// PRE: Test exists
func ExecuteDeletePTTest(ctx context.Context, input DeletePTTestInput, deps PTTestDeps) error {
	t, err := deps.PTTestStore.GetByID(ctx, input.TestID)
	if err != nil {
		return ErrNotFound
	}
	if err := deps.PTTestStore.Delete(ctx, t.ID); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryFitness, audit.ActionDelete, deps.Now()).
		WithSeverity(audit.SeverityWarning).
		WithResource("pt_test", t.ID).
		WithDescription("cadet "+t.CadetID))
	return nil
}

// RecordInspectionInput carries a uniform inspection result.
type RecordInspectionInput struct {
	CadetID     string
	InspectedAt string
	Score       int
	Notes       string
	Actor       Actor
}

// RecordInspectionDeps holds dependencies for RecordInspection.
type RecordInspectionDeps struct {
	Cadets          CadetLookup
	InspectionStore interface {
		Save(ctx context.Context, i inspection.Inspection) error
	}
	GenerateID func() string
}

// ExecuteRecordInspection grades and stores an inspection.
// POST: Passed reflects the passing score; Inspector is the actor's email
func ExecuteRecordInspection(ctx context.Context, input RecordInspectionInput, deps RecordInspectionDeps) (inspection.Inspection, error) {
	if _, err := deps.Cadets.GetByID(ctx, input.CadetID); err != nil {
		return inspection.Inspection{}, ErrNotFound
	}
	date, err := parseDate("inspection date", input.InspectedAt)
	if err != nil {
		return inspection.Inspection{}, err
	}
	i := inspection.Inspection{
		ID:          deps.GenerateID(),
		CadetID:     input.CadetID,
		InspectedAt: date,
		Score:       input.Score,
		Inspector:   input.Actor.Email,
		Notes:       input.Notes,
	}
	if err := i.Validate(); err != nil {
		return inspection.Inspection{}, invalid(err)
	}
	i.Grade()
	if err := deps.InspectionStore.Save(ctx, i); err != nil {
		return inspection.Inspection{}, err
	}
	return i, nil
}
