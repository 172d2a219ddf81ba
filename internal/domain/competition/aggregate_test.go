package competition_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"jrotc/internal/domain/competition"
)

func sheet(entrant string, scores map[string]string) competition.ScoreSheet {
	s := competition.ScoreSheet{EventID: "ev1", JudgeName: "Judge", Entrant: entrant, Scores: scores}
	s.ComputeTotal()
	return s
}

// TestFieldAverage verifies averages skip absent fields instead of counting them as zero.
func TestFieldAverage(t *testing.T) {
	sheets := []competition.ScoreSheet{
		sheet("A", map[string]string{"a": "10"}),
		sheet("A", map[string]string{"a": "20"}),
		sheet("A", map[string]string{"b": "5"}),
	}

	a := competition.FieldAverage(sheets, "a")
	if !a.Valid || !a.Value.Equal(decimal.NewFromInt(15)) || a.Count != 2 {
		t.Errorf("average a = %+v, want 15 over 2", a)
	}
	b := competition.FieldAverage(sheets, "b")
	if !b.Valid || !b.Value.Equal(decimal.NewFromInt(5)) {
		t.Errorf("average b = %+v, want 5", b)
	}
	c := competition.FieldAverage(sheets, "c")
	if c.Valid || c.String() != competition.NoData {
		t.Errorf("average c = %+v (%s), want no data", c, c.String())
	}
}

// TestFieldAverage_NonNumericExcluded verifies junk values do not contribute.
func TestFieldAverage_NonNumericExcluded(t *testing.T) {
	sheets := []competition.ScoreSheet{
		sheet("A", map[string]string{"a": "n/a"}),
		sheet("A", map[string]string{"a": ""}),
		sheet("A", map[string]string{"a": " 7.5 "}),
	}
	avg := competition.FieldAverage(sheets, "a")
	if avg.Count != 1 || avg.String() != "7.5" {
		t.Errorf("got %+v (%s), want 7.5 over 1", avg, avg.String())
	}
}

// TestAggregate verifies field order, grand total and default field discovery.
func TestAggregate(t *testing.T) {
	sheets := []competition.ScoreSheet{
		sheet("Lincoln", map[string]string{"bearing": "8", "precision": "9.5"}),
		sheet("Lincoln", map[string]string{"bearing": "7", "precision": "x"}),
	}
	sum := competition.Aggregate(sheets, []string{"precision", "bearing", "commands"})
	if len(sum.Fields) != 3 || sum.Fields[0].Field != "precision" || sum.Fields[2].Field != "commands" {
		t.Fatalf("unexpected fields %+v", sum.Fields)
	}
	if sum.Fields[1].Average.String() != "7.5" {
		t.Errorf("bearing average = %s", sum.Fields[1].Average.String())
	}
	if sum.Fields[2].Average.Valid {
		t.Error("commands should report no data")
	}
	if !sum.GrandTotal.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("grand total = %s, want 24.5", sum.GrandTotal)
	}

	auto := competition.Aggregate(sheets, nil)
	if len(auto.Fields) != 2 || auto.Fields[0].Field != "bearing" {
		t.Errorf("discovered fields = %+v", auto.Fields)
	}
}

// TestGrandTotalUsesStoredTotals verifies the aggregator does not recompute sheet totals.
func TestGrandTotalUsesStoredTotals(t *testing.T) {
	s := competition.ScoreSheet{Entrant: "A", Scores: map[string]string{"a": "1"}, Total: decimal.NewFromInt(40)}
	sum := competition.Aggregate([]competition.ScoreSheet{s}, nil)
	if !sum.GrandTotal.Equal(decimal.NewFromInt(40)) {
		t.Errorf("grand total = %s, want stored 40", sum.GrandTotal)
	}
}

// TestRankEntrants verifies ordering and shared places.
func TestRankEntrants(t *testing.T) {
	sheets := []competition.ScoreSheet{
		sheet("Roosevelt", map[string]string{"a": "10"}),
		sheet("Lincoln", map[string]string{"a": "20"}),
		sheet("Adams", map[string]string{"a": "10"}),
		sheet("Lincoln", map[string]string{"a": "5"}),
	}
	got := competition.RankEntrants(sheets)
	want := []struct {
		name  string
		place int
	}{{"Lincoln", 1}, {"Adams", 2}, {"Roosevelt", 2}}
	if len(got) != len(want) {
		t.Fatalf("got %d entrants, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Entrant != w.name || got[i].Place != w.place {
			t.Errorf("rank[%d] = %s/%d, want %s/%d", i, got[i].Entrant, got[i].Place, w.name, w.place)
		}
	}
	if got[0].Sheets != 2 || !got[0].Total.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Lincoln = %+v", got[0])
	}
}
