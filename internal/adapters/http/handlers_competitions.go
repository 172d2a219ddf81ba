package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"jrotc/internal/application/orchestrators"
	"jrotc/internal/application/projections"
	domainCompetition "jrotc/internal/domain/competition"
)

type competitionView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Date     string      `json:"date"`
	Location string      `json:"location"`
	Events   []eventView `json:"events,omitempty"`
}

type eventView struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	Name          string `json:"name"`
	TemplateID    string `json:"template_id"`
}

type templateView struct {
	ID       string                        `json:"id"`
	Name     string                        `json:"name"`
	Criteria []domainCompetition.Criterion `json:"criteria"`
}

type scoreSheetView struct {
	ID          string            `json:"id"`
	EventID     string            `json:"event_id"`
	JudgeName   string            `json:"judge_name"`
	Entrant     string            `json:"entrant"`
	Scores      map[string]string `json:"scores"`
	Total       string            `json:"total"`
	SubmittedAt string            `json:"submitted_at"`
}

func toCompetitionView(c domainCompetition.Competition) competitionView {
	return competitionView{ID: c.ID, Name: c.Name, Date: c.Date.Format(orchestrators.DateLayout), Location: c.Location}
}

func toEventView(e domainCompetition.Event) eventView {
	return eventView{ID: e.ID, CompetitionID: e.CompetitionID, Name: e.Name, TemplateID: e.TemplateID}
}

func toTemplateView(t domainCompetition.Template) templateView {
	criteria := t.Criteria
	if criteria == nil {
		criteria = []domainCompetition.Criterion{}
	}
	return templateView{ID: t.ID, Name: t.Name, Criteria: criteria}
}

func competitionDeps() orchestrators.CompetitionDeps {
	return orchestrators.CompetitionDeps{
		Store:      stores.CompetitionStore,
		Audit:      auditRecorder(),
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// handleListCompetitions handles GET /api/competitions
func handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	ctx := r.Context()
	comps, err := stores.CompetitionStore.ListCompetitions(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]competitionView, 0, len(comps))
	for _, c := range comps {
		v := toCompetitionView(c)
		events, err := stores.CompetitionStore.ListEvents(ctx, c.ID)
		if err != nil {
			internalError(w, err)
			return
		}
		for _, e := range events {
			v.Events = append(v.Events, toEventView(e))
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateCompetition handles POST /api/competitions
func handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Name     string `json:"name"`
		Date     string `json:"date"`
		Location string `json:"location"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	c, err := orchestrators.ExecuteCreateCompetition(r.Context(), orchestrators.CreateCompetitionInput{
		Name:     input.Name,
		Date:     input.Date,
		Location: input.Location,
		Actor:    actorFrom(r, sess),
	}, competitionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompetitionView(c))
}

// handleCreateEvent handles POST /api/competitions/{id}/events
func handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Name       string `json:"name"`
		TemplateID string `json:"template_id"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	e, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{
		CompetitionID: r.PathValue("id"),
		Name:          input.Name,
		TemplateID:    input.TemplateID,
		Actor:         actorFrom(r, sess),
	}, competitionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventView(e))
}

// handleListTemplates handles GET /api/templates
func handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	templates, err := stores.CompetitionStore.ListTemplates(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]templateView, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSaveTemplate handles POST /api/templates. An id updates an existing template.
func handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input templateView
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := orchestrators.ExecuteSaveTemplate(r.Context(), orchestrators.SaveTemplateInput{
		Template: domainCompetition.Template{ID: input.ID, Name: input.Name, Criteria: input.Criteria},
		Actor:    actorFrom(r, sess),
	}, competitionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if input.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toTemplateView(t))
}

// handleSubmitScoreSheet handles POST /api/events/{id}/score-sheets.
// Score values may be JSON strings or numbers; null means not scored.
func handleSubmitScoreSheet(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		JudgeName string         `json:"judge_name"`
		Entrant   string         `json:"entrant"`
		Scores    map[string]any `json:"scores"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	scores, err := scoreValues(input.Scores)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := orchestrators.ExecuteSubmitScoreSheet(r.Context(), orchestrators.SubmitScoreSheetInput{
		EventID:   r.PathValue("id"),
		JudgeName: input.JudgeName,
		Entrant:   input.Entrant,
		Scores:    scores,
		Actor:     actorFrom(r, sess),
	}, competitionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scoreSheetView{
		ID:          s.ID,
		EventID:     s.EventID,
		JudgeName:   s.JudgeName,
		Entrant:     s.Entrant,
		Scores:      s.Scores,
		Total:       s.Total.String(),
		SubmittedAt: s.SubmittedAt.Format(time.RFC3339),
	})
}

// scoreValues converts decoded JSON score values to the raw strings stored on a sheet.
func scoreValues(in map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for field, v := range in {
		switch val := v.(type) {
		case nil:
			out[field] = ""
		case string:
			out[field] = val
		case float64:
			out[field] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("score %q must be a number or string", field)
		}
	}
	return out, nil
}

// handleEventResults handles GET /api/events/{id}/results
func handleEventResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	results, err := projections.QueryGetEventResults(r.Context(), r.PathValue("id"), projections.GetEventResultsDeps{
		CompetitionStore: stores.CompetitionStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
