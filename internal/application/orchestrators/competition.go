package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"jrotc/internal/adapters/metrics"
	competitionStore "jrotc/internal/adapters/storage/competition"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/competition"
)

// CompetitionStore defines the store interface needed by the competition orchestrators.
type CompetitionStore interface {
	SaveCompetition(ctx context.Context, c competition.Competition) error
	GetCompetition(ctx context.Context, id string) (competition.Competition, error)
	SaveEvent(ctx context.Context, e competition.Event) error
	GetEvent(ctx context.Context, id string) (competition.Event, error)
	SaveTemplate(ctx context.Context, t competition.Template) error
	GetTemplate(ctx context.Context, id string) (competition.Template, error)
	SaveSheet(ctx context.Context, s competition.ScoreSheet) error
}

// CompetitionDeps holds dependencies for the competition orchestrators.
type CompetitionDeps struct {
	Store      CompetitionStore
	Audit      AuditRecorder
	GenerateID func() string
	Now        func() time.Time
}

// CreateCompetitionInput carries a new drill meet.
type CreateCompetitionInput struct {
	Name     string
	Date     string
	Location string
	Actor    Actor
}

// ExecuteCreateCompetition stores a new competition.
func ExecuteCreateCompetition(ctx context.Context, input CreateCompetitionInput, deps CompetitionDeps) (competition.Competition, error) {
	date, err := parseDate("competition date", input.Date)
	if err != nil {
		return competition.Competition{}, err
	}
	c := competition.Competition{
		ID:       deps.GenerateID(),
		Name:     strings.TrimSpace(input.Name),
		Date:     date,
		Location: strings.TrimSpace(input.Location),
	}
	if err := c.Validate(); err != nil {
		return competition.Competition{}, invalid(err)
	}
	if err := deps.Store.SaveCompetition(ctx, c); err != nil {
		return competition.Competition{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryCompetition, audit.ActionCreate, deps.Now()).
		WithResource("competition", c.ID).
		WithDescription(c.Name))
	return c, nil
}

// CreateEventInput carries a scored event within a competition.
type CreateEventInput struct {
	CompetitionID string
	Name          string
	TemplateID    string
	Actor         Actor
}

// ExecuteCreateEvent adds an event to a competition.
// PRE: Competition and template exist
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CompetitionDeps) (competition.Event, error) {
	if _, err := deps.Store.GetCompetition(ctx, input.CompetitionID); err != nil {
		return competition.Event{}, notFoundOr(err)
	}
	e := competition.Event{
		ID:            deps.GenerateID(),
		CompetitionID: input.CompetitionID,
		Name:          strings.TrimSpace(input.Name),
		TemplateID:    input.TemplateID,
	}
	if err := e.Validate(); err != nil {
		return competition.Event{}, invalid(err)
	}
	if _, err := deps.Store.GetTemplate(ctx, e.TemplateID); errors.Is(err, competitionStore.ErrNotFound) {
		return competition.Event{}, &ValidationError{Message: "unknown score sheet template"}
	} else if err != nil {
		return competition.Event{}, err
	}
	if err := deps.Store.SaveEvent(ctx, e); err != nil {
		return competition.Event{}, err
	}
	return e, nil
}

// SaveTemplateInput carries a score-sheet template. An empty ID creates a new template.
type SaveTemplateInput struct {
	Template competition.Template
	Actor    Actor
}

// ExecuteSaveTemplate validates and stores a score-sheet template.
// POST: Criterion fields are trimmed; labels default to the field name
func ExecuteSaveTemplate(ctx context.Context, input SaveTemplateInput, deps CompetitionDeps) (competition.Template, error) {
	t := input.Template
	t.Name = strings.TrimSpace(t.Name)
	for i := range t.Criteria {
		t.Criteria[i].Field = strings.TrimSpace(t.Criteria[i].Field)
		t.Criteria[i].Label = strings.TrimSpace(t.Criteria[i].Label)
		if t.Criteria[i].Label == "" {
			t.Criteria[i].Label = t.Criteria[i].Field
		}
	}
	if err := t.Validate(); err != nil {
		return competition.Template{}, invalid(err)
	}
	action := audit.ActionUpdate
	if t.ID == "" {
		t.ID = deps.GenerateID()
		action = audit.ActionCreate
	}
	if err := deps.Store.SaveTemplate(ctx, t); err != nil {
		return competition.Template{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryCompetition, action, deps.Now()).
		WithResource("score_template", t.ID).
		WithDescription(t.Name))
	return t, nil
}

// SubmitScoreSheetInput carries one judge's scores for one entrant.
type SubmitScoreSheetInput struct {
	EventID   string
	JudgeName string
	Entrant   string
	Scores    map[string]string
	Actor     Actor
}

// ExecuteSubmitScoreSheet checks a sheet against the event's template and stores it with its total.
// PRE: Event exists
// POST: Sheet stored; Total is the sum of its numeric values at submission time
// INVARIANT: Stored totals are never recomputed
func ExecuteSubmitScoreSheet(ctx context.Context, input SubmitScoreSheetInput, deps CompetitionDeps) (competition.ScoreSheet, error) {
	ev, err := deps.Store.GetEvent(ctx, input.EventID)
	if err != nil {
		return competition.ScoreSheet{}, notFoundOr(err)
	}
	tpl, err := deps.Store.GetTemplate(ctx, ev.TemplateID)
	if err != nil {
		return competition.ScoreSheet{}, err
	}

	scores := make(map[string]string, len(input.Scores))
	for k, v := range input.Scores {
		scores[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	s := competition.ScoreSheet{
		ID:          deps.GenerateID(),
		EventID:     ev.ID,
		JudgeName:   strings.TrimSpace(input.JudgeName),
		Entrant:     strings.TrimSpace(input.Entrant),
		Scores:      scores,
		SubmittedBy: input.Actor.AccountID,
		SubmittedAt: deps.Now(),
	}
	if err := s.Check(tpl); err != nil {
		return competition.ScoreSheet{}, invalid(err)
	}
	s.ComputeTotal()

	if err := deps.Store.SaveSheet(ctx, s); err != nil {
		return competition.ScoreSheet{}, err
	}
	metrics.ScoreSheetsSubmitted.Inc()
	slog.Info("score_sheet_submitted", "event_id", ev.ID, "entrant", s.Entrant, "judge", s.JudgeName, "total", s.Total.String())
	return s, nil
}

// notFoundOr maps the store's not-found error to ErrNotFound and passes others through.
func notFoundOr(err error) error {
	if errors.Is(err, competitionStore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
