package competition

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NoData is shown in place of an average that has no contributing values.
const NoData = "-"

// Average is a field mean over the sheets that supplied a numeric value for it.
type Average struct {
	Value decimal.Decimal
	Count int
	Valid bool
}

// String renders the average to two decimal places, or NoData.
func (a Average) String() string {
	if !a.Valid {
		return NoData
	}
	return a.Value.Round(2).String()
}

// FieldAverage returns the mean of the numeric values for field across sheets.
// Missing and non-numeric values are excluded, not counted as zero.
// INVARIANT: Valid is false exactly when no sheet contributed a value
func FieldAverage(sheets []ScoreSheet, field string) Average {
	sum := decimal.Zero
	count := 0
	for _, s := range sheets {
		raw, ok := s.Scores[field]
		if !ok {
			continue
		}
		v, ok := ParseScore(raw)
		if !ok {
			continue
		}
		sum = sum.Add(v)
		count++
	}
	if count == 0 {
		return Average{}
	}
	return Average{Value: sum.Div(decimal.NewFromInt(int64(count))), Count: count, Valid: true}
}

// FieldSummary pairs a field name with its average.
type FieldSummary struct {
	Field   string
	Average Average
}

// Summary is the aggregate view of all sheets submitted for an event.
type Summary struct {
	Fields     []FieldSummary
	GrandTotal decimal.Decimal
	SheetCount int
}

// Aggregate computes per-field averages and the grand total of stored sheet totals.
// When fields is nil, every field seen on any sheet is reported in name order.
// PRE: none
// POST: Summary.Fields follows the order of fields
func Aggregate(sheets []ScoreSheet, fields []string) Summary {
	if fields == nil {
		fields = fieldNames(sheets)
	}
	summary := Summary{GrandTotal: decimal.Zero, SheetCount: len(sheets)}
	for _, f := range fields {
		summary.Fields = append(summary.Fields, FieldSummary{Field: f, Average: FieldAverage(sheets, f)})
	}
	for _, s := range sheets {
		summary.GrandTotal = summary.GrandTotal.Add(s.Total)
	}
	return summary
}

// EntrantTotal is the combined result of all judges' sheets for one entrant.
type EntrantTotal struct {
	Entrant string
	Total   decimal.Decimal
	Sheets  int
	Place   int
}

// RankEntrants sums stored sheet totals per entrant and orders them highest first.
// Tied totals share a place; ties are listed by entrant name.
func RankEntrants(sheets []ScoreSheet) []EntrantTotal {
	byEntrant := make(map[string]*EntrantTotal)
	var order []string
	for _, s := range sheets {
		et, ok := byEntrant[s.Entrant]
		if !ok {
			et = &EntrantTotal{Entrant: s.Entrant, Total: decimal.Zero}
			byEntrant[s.Entrant] = et
			order = append(order, s.Entrant)
		}
		et.Total = et.Total.Add(s.Total)
		et.Sheets++
	}

	out := make([]EntrantTotal, 0, len(order))
	for _, name := range order {
		out = append(out, *byEntrant[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Entrant < out[j].Entrant
	})
	for i := range out {
		if i > 0 && out[i].Total.Equal(out[i-1].Total) {
			out[i].Place = out[i-1].Place
			continue
		}
		out[i].Place = i + 1
	}
	return out
}

func fieldNames(sheets []ScoreSheet) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sheets {
		for f := range s.Scores {
			if !seen[f] {
				seen[f] = true
				names = append(names, f)
			}
		}
	}
	sort.Strings(names)
	return names
}
