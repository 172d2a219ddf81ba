package competition_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"jrotc/internal/domain/competition"
)

func drillTemplate() competition.Template {
	return competition.Template{
		ID:   "t1",
		Name: "Regulation drill",
		Criteria: []competition.Criterion{
			{Field: "commands", Label: "Commands", MaxPoints: decimal.NewFromInt(10)},
			{Field: "precision", Label: "Precision", MaxPoints: decimal.NewFromInt(20)},
		},
	}
}

// TestTemplateValidation tests validation of Template.
func TestTemplateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*competition.Template)
		wantErr string
	}{
		{"valid", func(*competition.Template) {}, ""},
		{"no name", func(tp *competition.Template) { tp.Name = "" }, "name is required"},
		{"no criteria", func(tp *competition.Template) { tp.Criteria = nil }, "at least one criterion"},
		{"duplicate", func(tp *competition.Template) { tp.Criteria[1].Field = "commands" }, "duplicate"},
		{"zero max", func(tp *competition.Template) { tp.Criteria[0].MaxPoints = decimal.Zero }, "positive max points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := drillTemplate()
			tt.mutate(&tp)
			err := tp.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestScoreSheetCheck verifies sheets are checked against template fields and caps.
func TestScoreSheetCheck(t *testing.T) {
	tpl := drillTemplate()
	tests := []struct {
		name    string
		scores  map[string]string
		wantErr string
	}{
		{"valid", map[string]string{"commands": "9", "precision": "18.5"}, ""},
		{"blank allowed", map[string]string{"commands": "", "precision": "12"}, ""},
		{"unknown field", map[string]string{"uniform": "5"}, "unknown score field"},
		{"not numeric", map[string]string{"commands": "nine"}, "not a number"},
		{"over max", map[string]string{"commands": "11"}, "between 0 and 10"},
		{"negative", map[string]string{"precision": "-1"}, "between 0 and 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := competition.ScoreSheet{EventID: "ev1", JudgeName: "Maj Smith", Entrant: "Lincoln HS", Scores: tt.scores}
			err := s.Check(tpl)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestScoreSheetCheck_RequiredFields verifies judge and entrant are required.
func TestScoreSheetCheck_RequiredFields(t *testing.T) {
	s := competition.ScoreSheet{EventID: "ev1", Entrant: "Lincoln HS"}
	if err := s.Check(drillTemplate()); err != competition.ErrJudgeRequired {
		t.Errorf("expected ErrJudgeRequired, got %v", err)
	}
	s.JudgeName = "Maj Smith"
	s.Entrant = ""
	if err := s.Check(drillTemplate()); err != competition.ErrEntrantRequired {
		t.Errorf("expected ErrEntrantRequired, got %v", err)
	}
}

// TestComputeTotal verifies totals ignore blank and junk values.
func TestComputeTotal(t *testing.T) {
	s := competition.ScoreSheet{Scores: map[string]string{"a": "9", "b": "8.25", "c": "", "d": "dq"}}
	if got := s.ComputeTotal(); !got.Equal(decimal.RequireFromString("17.25")) {
		t.Errorf("ComputeTotal() = %s, want 17.25", got)
	}
	if !s.Total.Equal(decimal.RequireFromString("17.25")) {
		t.Errorf("Total not stored: %s", s.Total)
	}
}
