package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jrotc/internal/domain/competition"
)

func competitionDeps(store *mockCompetitionStore) CompetitionDeps {
	return CompetitionDeps{Store: store, Audit: &mockAudit{}, GenerateID: seqIDs("cmp"), Now: fixedNow}
}

// TestCompetitionSetupAndScoring walks a meet from template to stored sheet.
func TestCompetitionSetupAndScoring(t *testing.T) {
	store := newMockCompetitionStore()
	deps := competitionDeps(store)
	ctx := context.Background()

	tpl, err := ExecuteSaveTemplate(ctx, SaveTemplateInput{Template: competition.Template{
		Name: "Regulation drill",
		Criteria: []competition.Criterion{
			{Field: " commands ", MaxPoints: decimal.NewFromInt(10)},
			{Field: "precision", Label: "Precision", MaxPoints: decimal.NewFromInt(20)},
		},
	}}, deps)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if tpl.Criteria[0].Field != "commands" || tpl.Criteria[0].Label != "commands" {
		t.Errorf("criteria not cleaned: %+v", tpl.Criteria)
	}

	comp, err := ExecuteCreateCompetition(ctx, CreateCompetitionInput{Name: "Fall Meet", Date: "2026-11-07", Location: "Lincoln HS"}, deps)
	if err != nil {
		t.Fatalf("competition: %v", err)
	}
	if _, err := ExecuteCreateEvent(ctx, CreateEventInput{CompetitionID: comp.ID, Name: "Regulation", TemplateID: "nope"}, deps); err == nil {
		t.Error("unknown template should fail")
	}
	ev, err := ExecuteCreateEvent(ctx, CreateEventInput{CompetitionID: comp.ID, Name: "Regulation", TemplateID: tpl.ID}, deps)
	if err != nil {
		t.Fatalf("event: %v", err)
	}

	sheet, err := ExecuteSubmitScoreSheet(ctx, SubmitScoreSheetInput{
		EventID: ev.ID, JudgeName: "Maj Smith", Entrant: "Lincoln HS",
		Scores: map[string]string{"commands": " 9 ", "precision": "17.5"},
	}, deps)
	if err != nil {
		t.Fatalf("sheet: %v", err)
	}
	if !sheet.Total.Equal(decimal.RequireFromString("26.5")) || len(store.sheets) != 1 {
		t.Errorf("total = %s, stored = %d", sheet.Total, len(store.sheets))
	}

	_, err = ExecuteSubmitScoreSheet(ctx, SubmitScoreSheetInput{
		EventID: ev.ID, JudgeName: "Maj Smith", Entrant: "Lincoln HS",
		Scores: map[string]string{"commands": "11"},
	}, deps)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("over-max score should be a validation error, got %v", err)
	}
	if _, err := ExecuteSubmitScoreSheet(ctx, SubmitScoreSheetInput{EventID: "missing"}, deps); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestCreateCompetition_Validation covers required fields.
func TestCreateCompetition_Validation(t *testing.T) {
	deps := competitionDeps(newMockCompetitionStore())
	for _, in := range []CreateCompetitionInput{{Name: "Meet"}, {Date: "2026-11-07"}, {Name: "Meet", Date: "Nov 7"}} {
		if _, err := ExecuteCreateCompetition(context.Background(), in, deps); err == nil {
			t.Errorf("input %+v should fail", in)
		}
	}
}

// failingCompetitionStore fails every lookup with a database error.
type failingCompetitionStore struct{ *mockCompetitionStore }

func (failingCompetitionStore) GetCompetition(context.Context, string) (competition.Competition, error) {
	return competition.Competition{}, errDatabase
}

func (failingCompetitionStore) GetEvent(context.Context, string) (competition.Event, error) {
	return competition.Event{}, errDatabase
}

var errDatabase = errors.New("database is locked")

// TestCompetition_StoreErrorsPassThrough verifies database failures are not reported as not found.
func TestCompetition_StoreErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	deps := competitionDeps(newMockCompetitionStore())
	deps.Store = failingCompetitionStore{newMockCompetitionStore()}

	if _, err := ExecuteCreateEvent(ctx, CreateEventInput{CompetitionID: "comp-1", Name: "Drill", TemplateID: "tpl-1"}, deps); !errors.Is(err, errDatabase) {
		t.Errorf("CreateEvent: got %v, want database error", err)
	}
	if _, err := ExecuteSubmitScoreSheet(ctx, SubmitScoreSheetInput{EventID: "ev-1"}, deps); !errors.Is(err, errDatabase) {
		t.Errorf("SubmitScoreSheet: got %v, want database error", err)
	}
}
