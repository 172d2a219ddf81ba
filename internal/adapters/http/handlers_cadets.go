package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"jrotc/internal/adapters/http/middleware"
	"jrotc/internal/application/orchestrators"
	"jrotc/internal/application/projections"
	domainAccount "jrotc/internal/domain/account"
	domainCadet "jrotc/internal/domain/cadet"
)

// cadetInput is the JSON body accepted when creating or updating a cadet.
type cadetInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	RoleID    string `json:"role_id"`
	Grade     string `json:"grade"`
	Flight    string `json:"flight"`
	Rank      string `json:"rank"`
	CadetYear string `json:"cadet_year"`
	StartYear int    `json:"start_year"`
}

func (in cadetInput) toDomain(id string) domainCadet.Cadet {
	return domainCadet.Cadet{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		RoleID:    in.RoleID,
		Grade:     in.Grade,
		Flight:    in.Flight,
		Rank:      in.Rank,
		CadetYear: in.CadetYear,
		StartYear: in.StartYear,
	}
}

func (in cadetInput) record() domainCadet.Record {
	c := in.toDomain("")
	return c.Record()
}

func saveCadetDeps() orchestrators.SaveCadetDeps {
	return orchestrators.SaveCadetDeps{
		CadetStore:  stores.CadetStore,
		References:  stores.ReferenceStore,
		GradeConfig: config.GradeConfig,
		Audit:       auditRecorder(),
		GenerateID:  generateID,
		Now:         timeNow,
	}
}

func cadetProfileDeps() projections.GetCadetProfileDeps {
	return projections.GetCadetProfileDeps{
		CadetStore:      stores.CadetStore,
		References:      stores.ReferenceStore,
		PTTestStore:     stores.PTTestStore,
		InspectionStore: stores.InspectionStore,
		EquipmentStore:  stores.EquipmentStore,
		ServiceStore:    stores.ServiceStore,
	}
}

// ownCadetID returns the cadet record linked to a cadet session, or "".
func ownCadetID(ctx context.Context, sess middleware.Session) string {
	if sess.Role != domainAccount.RoleCadet {
		return ""
	}
	c, err := stores.CadetStore.GetByAccountID(ctx, sess.AccountID)
	if err != nil {
		return ""
	}
	return c.ID
}

// requireCadetAccess allows staff, or a cadet reading their own record.
func requireCadetAccess(w http.ResponseWriter, r *http.Request, cadetID string) (middleware.Session, bool) {
	sess, ok := requireSession(w, r)
	if !ok {
		return sess, false
	}
	if sess.IsStaff() || (cadetID != "" && ownCadetID(r.Context(), sess) == cadetID) {
		return sess, true
	}
	writeErrorMessage(w, http.StatusForbidden, "Forbidden")
	return middleware.Session{}, false
}

// handleListCadets handles GET /api/cadets
func handleListCadets(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	q := r.URL.Query()
	result, err := projections.QueryGetCadetList(r.Context(), projections.GetCadetListQuery{
		Status:  q.Get("status"),
		Flight:  q.Get("flight"),
		Grade:   q.Get("grade"),
		Search:  q.Get("q"),
		Sort:    q.Get("sort"),
		Dir:     q.Get("dir"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 25),
	}, projections.GetCadetListDeps{
		CadetStore: stores.CadetStore,
		References: stores.ReferenceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateCadet handles POST /api/cadets
func handleCreateCadet(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input cadetInput
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	saved, err := orchestrators.ExecuteSaveCadet(r.Context(), orchestrators.SaveCadetInput{
		Cadet: input.toDomain(""),
		Actor: actorFrom(r, sess),
	}, saveCadetDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCadet(w, r, http.StatusCreated, saved.ID)
}

// handleUpdateCadet handles PUT /api/cadets/{id}
func handleUpdateCadet(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input cadetInput
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	saved, err := orchestrators.ExecuteSaveCadet(r.Context(), orchestrators.SaveCadetInput{
		Cadet: input.toDomain(r.PathValue("id")),
		Actor: actorFrom(r, sess),
	}, saveCadetDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCadet(w, r, http.StatusOK, saved.ID)
}

// handleGetCadet handles GET /api/cadets/{id}
func handleGetCadet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireCadetAccess(w, r, r.PathValue("id")); !ok {
		return
	}
	writeCadet(w, r, http.StatusOK, r.PathValue("id"))
}

// writeCadet responds with the list-row view of one cadet.
func writeCadet(w http.ResponseWriter, r *http.Request, status int, id string) {
	profile, err := projections.QueryGetCadetProfile(r.Context(), id, cadetProfileDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, profile.Cadet)
}

// handleCadetProfile handles GET /api/cadets/{id}/profile
func handleCadetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := requireCadetAccess(w, r, id); !ok {
		return
	}
	profile, err := projections.QueryGetCadetProfile(r.Context(), id, cadetProfileDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleCadetStatus handles POST /api/cadets/{id}/status
func handleCadetStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Active bool `json:"active"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	c, err := orchestrators.ExecuteSetCadetStatus(r.Context(), orchestrators.SetCadetStatusInput{
		CadetID: r.PathValue("id"),
		Active:  input.Active,
		Actor:   actorFrom(r, sess),
	}, orchestrators.SetCadetStatusDeps{
		CadetStore: stores.CadetStore,
		Audit:      auditRecorder(),
		Now:        timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": c.ID, "status": c.Status})
}

// importRowError is the JSON view of one rejected import row.
type importRowError struct {
	Row      int                  `json:"row"`
	Email    string               `json:"email,omitempty"`
	Message  string               `json:"message,omitempty"`
	Problems domainCadet.Problems `json:"problems,omitempty"`
}

// handleImportCadets handles POST /api/cadets/import
func handleImportCadets(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var input struct {
		CSV            string `json:"csv"`
		DryRun         bool   `json:"dry_run"`
		UpdateExisting bool   `json:"update_existing"`
		CreateAccounts bool   `json:"create_accounts"`
		DefaultRole    string `json:"default_role"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(input.CSV) == "" {
		writeErrorMessage(w, http.StatusBadRequest, "csv is required")
		return
	}
	if input.DefaultRole == "" {
		input.DefaultRole = domainCadet.DefaultRoles[0].ID
	}

	result, err := orchestrators.ExecuteImportCadets(r.Context(), orchestrators.ImportCadetsInput{
		CSV:            input.CSV,
		DryRun:         input.DryRun,
		UpdateMode:     input.UpdateExisting,
		CreateAccounts: input.CreateAccounts,
		DefaultRole:    input.DefaultRole,
		Actor:          actorFrom(r, sess),
	}, orchestrators.ImportCadetsDeps{
		CadetStore:   stores.CadetStore,
		AccountStore: stores.AccountStore,
		References:   stores.ReferenceStore,
		Sender:       config.Sender,
		Audit:        auditRecorder(),
		GradeConfig:  config.GradeConfig,
		BaseURL:      config.BaseURL,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	rowErrors := make([]importRowError, 0, len(result.Errors))
	for _, e := range result.Errors {
		rowErrors = append(rowErrors, importRowError{Row: e.Row, Email: e.Email, Message: e.Message, Problems: e.Problems})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dry_run":          result.DryRun,
		"total":            result.Total,
		"created":          result.Created,
		"updated":          result.Updated,
		"skipped":          result.Skipped,
		"accounts_created": result.AccountsCreated,
		"emails_sent":      result.EmailsSent,
		"unknown_columns":  result.Unknown,
		"errors":           rowErrors,
	})
}

// handleValidateCadet handles POST /api/cadets/validate.
// It runs the field validator against the stored reference lists without saving.
func handleValidateCadet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var input cadetInput
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	refs, err := stores.ReferenceStore.References(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	problems := domainCadet.ValidateRecord(input.record(), refs)
	if problems == nil {
		problems = domainCadet.Problems{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":    problems.Valid(),
		"problems": problems,
		"messages": problems.Messages(),
	})
}

// handleGrade handles GET /api/grade?start_year=YYYY[&date=YYYY-MM-DD]
func handleGrade(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	startYear, err := strconv.Atoi(r.URL.Query().Get("start_year"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "start_year must be a year")
		return
	}
	now := timeNow()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := parseDateParam(d)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		now = parsed
	}
	grade, ok := domainCadet.CalculateGrade(startYear, now, config.GradeConfig)
	writeJSON(w, http.StatusOK, map[string]any{
		"start_year":    startYear,
		"academic_year": config.GradeConfig.AcademicYear(now),
		"grade":         grade,
		"in_window":     ok,
	})
}

// referencesView is the JSON view of the reference lists.
type referencesView struct {
	Roles      []roleView `json:"roles"`
	Grades     []string   `json:"grades"`
	Flights    []string   `json:"flights"`
	Ranks      []string   `json:"ranks"`
	CadetYears []string   `json:"cadet_years"`
}

type roleView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// handleGetReferences handles GET /api/references
func handleGetReferences(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	refs, err := stores.ReferenceStore.References(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	view := referencesView{
		Roles:      make([]roleView, 0, len(refs.Roles)),
		Grades:     nonNil(refs.Grades),
		Flights:    nonNil(refs.Flights),
		Ranks:      nonNil(refs.Ranks),
		CadetYears: nonNil(refs.CadetYears),
	}
	for _, role := range refs.Roles {
		view.Roles = append(view.Roles, roleView{ID: role.ID, Name: role.Name, Label: role.Label})
	}
	writeJSON(w, http.StatusOK, view)
}

// handleUpdateReferences handles PUT /api/references/{kind}
func handleUpdateReferences(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var input struct {
		Values []string `json:"values"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	err := orchestrators.ExecuteUpdateReferences(r.Context(), orchestrators.UpdateReferencesInput{
		Kind:   r.PathValue("kind"),
		Values: input.Values,
		Actor:  actorFrom(r, sess),
	}, orchestrators.UpdateReferencesDeps{
		ReferenceStore: stores.ReferenceStore,
		Audit:          auditRecorder(),
		Now:            timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
