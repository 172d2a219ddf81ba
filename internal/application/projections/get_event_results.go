package projections

import (
	"context"

	domainCompetition "jrotc/internal/domain/competition"
)

// FieldResult is the average for one template criterion.
type FieldResult struct {
	Field     string `json:"field"`
	Label     string `json:"label"`
	MaxPoints string `json:"max_points"`
	Average   string `json:"average"`
	Count     int    `json:"count"`
}

// EntrantResult is one entrant's placing.
type EntrantResult struct {
	Place   int    `json:"place"`
	Entrant string `json:"entrant"`
	Total   string `json:"total"`
	Sheets  int    `json:"sheets"`
}

// EventResults is the scoreboard for one event.
type EventResults struct {
	EventID     string          `json:"event_id"`
	EventName   string          `json:"event_name"`
	Competition string          `json:"competition"`
	Template    string          `json:"template"`
	Fields      []FieldResult   `json:"fields"`
	GrandTotal  string          `json:"grand_total"`
	SheetCount  int             `json:"sheet_count"`
	Entrants    []EntrantResult `json:"entrants"`
}

// GetEventResultsDeps holds dependencies for GetEventResults.
type GetEventResultsDeps struct {
	CompetitionStore CompetitionStore
}

// QueryGetEventResults aggregates the submitted sheets of an event.
// PRE: eventID is non-empty
// POST: Fields follow template order; averages with no contributing sheet show the no-data marker
func QueryGetEventResults(ctx context.Context, eventID string, deps GetEventResultsDeps) (EventResults, error) {
	ev, err := deps.CompetitionStore.GetEvent(ctx, eventID)
	if err != nil {
		return EventResults{}, ErrNotFound
	}
	tpl, err := deps.CompetitionStore.GetTemplate(ctx, ev.TemplateID)
	if err != nil {
		return EventResults{}, err
	}
	comp, err := deps.CompetitionStore.GetCompetition(ctx, ev.CompetitionID)
	if err != nil {
		return EventResults{}, err
	}
	sheets, err := deps.CompetitionStore.ListSheets(ctx, ev.ID)
	if err != nil {
		return EventResults{}, err
	}

	summary := domainCompetition.Aggregate(sheets, tpl.Fields())
	res := EventResults{
		EventID:     ev.ID,
		EventName:   ev.Name,
		Competition: comp.Name,
		Template:    tpl.Name,
		Fields:      make([]FieldResult, 0, len(summary.Fields)),
		GrandTotal:  summary.GrandTotal.String(),
		SheetCount:  summary.SheetCount,
		Entrants:    []EntrantResult{},
	}
	for _, f := range summary.Fields {
		crit, _ := tpl.Criterion(f.Field)
		res.Fields = append(res.Fields, FieldResult{
			Field:     f.Field,
			Label:     crit.Label,
			MaxPoints: crit.MaxPoints.String(),
			Average:   f.Average.String(),
			Count:     f.Average.Count,
		})
	}
	for _, e := range domainCompetition.RankEntrants(sheets) {
		res.Entrants = append(res.Entrants, EntrantResult{Place: e.Place, Entrant: e.Entrant, Total: e.Total.String(), Sheets: e.Sheets})
	}
	return res, nil
}
