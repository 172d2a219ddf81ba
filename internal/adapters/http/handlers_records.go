package web

import (
	"net/http"
	"time"

	serviceStore "jrotc/internal/adapters/storage/servicehours"
	"jrotc/internal/application/orchestrators"
	"jrotc/internal/application/projections"
	domainAccount "jrotc/internal/domain/account"
	domainEquipment "jrotc/internal/domain/equipment"
	domainInspection "jrotc/internal/domain/inspection"
	domainPTTest "jrotc/internal/domain/pttest"
	domainService "jrotc/internal/domain/servicehours"
)

// --- PT tests and inspections ---

type ptTestView struct {
	ID        string `json:"id"`
	CadetID   string `json:"cadet_id"`
	TestDate  string `json:"test_date"`
	PushUps   int    `json:"push_ups"`
	SitUps    int    `json:"sit_ups"`
	PlankTime string `json:"plank_time"`
	MileTime  string `json:"mile_time"`
	Notes     string `json:"notes,omitempty"`
}

func toPTTestView(t domainPTTest.Test) ptTestView {
	return ptTestView{
		ID:        t.ID,
		CadetID:   t.CadetID,
		TestDate:  t.TestDate.Format(orchestrators.DateLayout),
		PushUps:   t.PushUps,
		SitUps:    t.SitUps,
		PlankTime: t.PlankTime(),
		MileTime:  t.MileTime(),
		Notes:     t.Notes,
	}
}

func ptTestDeps() orchestrators.PTTestDeps {
	return orchestrators.PTTestDeps{
		Cadets:      stores.CadetStore,
		PTTestStore: stores.PTTestStore,
		Audit:       auditRecorder(),
		GenerateID:  generateID,
		Now:         timeNow,
	}
}

// handleRecordPTTest handles POST /api/cadets/{id}/pt-tests.
// plank_time and mile_time accept M:SS or plain seconds; blank means not taken.
func handleRecordPTTest(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		TestDate  string `json:"test_date"`
		PushUps   int    `json:"push_ups"`
		SitUps    int    `json:"sit_ups"`
		PlankTime string `json:"plank_time"`
		MileTime  string `json:"mile_time"`
		Notes     string `json:"notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := orchestrators.ExecuteRecordPTTest(r.Context(), orchestrators.RecordPTTestInput{
		CadetID:   r.PathValue("id"),
		TestDate:  input.TestDate,
		PushUps:   input.PushUps,
		SitUps:    input.SitUps,
		PlankTime: input.PlankTime,
		MileTime:  input.MileTime,
		Notes:     input.Notes,
		Actor:     actorFrom(r, sess),
	}, ptTestDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPTTestView(t))
}

// handleDeletePTTest handles DELETE /api/pt-tests/{id}
func handleDeletePTTest(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	err := orchestrators.ExecuteDeletePTTest(r.Context(), orchestrators.DeletePTTestInput{
		TestID: r.PathValue("id"),
		Actor:  actorFrom(r, sess),
	}, ptTestDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inspectionView struct {
	ID          string `json:"id"`
	CadetID     string `json:"cadet_id"`
	InspectedAt string `json:"inspected_at"`
	Score       int    `json:"score"`
	Passed      bool   `json:"passed"`
	Inspector   string `json:"inspector"`
	Notes       string `json:"notes,omitempty"`
}

func toInspectionView(i domainInspection.Inspection) inspectionView {
	return inspectionView{
		ID:          i.ID,
		CadetID:     i.CadetID,
		InspectedAt: i.InspectedAt.Format(orchestrators.DateLayout),
		Score:       i.Score,
		Passed:      i.Passed,
		Inspector:   i.Inspector,
		Notes:       i.Notes,
	}
}

// handleRecordInspection handles POST /api/cadets/{id}/inspections
func handleRecordInspection(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		InspectedAt string `json:"inspected_at"`
		Score       int    `json:"score"`
		Notes       string `json:"notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	insp, err := orchestrators.ExecuteRecordInspection(r.Context(), orchestrators.RecordInspectionInput{
		CadetID:     r.PathValue("id"),
		InspectedAt: input.InspectedAt,
		Score:       input.Score,
		Notes:       input.Notes,
		Actor:       actorFrom(r, sess),
	}, orchestrators.RecordInspectionDeps{
		Cadets:          stores.CadetStore,
		InspectionStore: stores.InspectionStore,
		GenerateID:      generateID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInspectionView(insp))
}

// --- Equipment ---

type equipmentView struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	SerialNumber    string     `json:"serial_number"`
	Size            string     `json:"size"`
	Condition       string     `json:"condition"`
	AssignedCadetID string     `json:"assigned_cadet_id,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func toEquipmentView(i domainEquipment.Item) equipmentView {
	v := equipmentView{
		ID:              i.ID,
		Name:            i.Name,
		Category:        i.Category,
		SerialNumber:    i.SerialNumber,
		Size:            i.Size,
		Condition:       i.Condition,
		AssignedCadetID: i.AssignedCadetID,
		Notes:           i.Notes,
	}
	if !i.AssignedAt.IsZero() {
		at := i.AssignedAt
		v.AssignedAt = &at
	}
	return v
}

func equipmentDeps() orchestrators.EquipmentDeps {
	return orchestrators.EquipmentDeps{
		EquipmentStore: stores.EquipmentStore,
		Cadets:         stores.CadetStore,
		Audit:          auditRecorder(),
		GenerateID:     generateID,
		Now:            timeNow,
	}
}

// handleListEquipment handles GET /api/equipment
func handleListEquipment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	q := r.URL.Query()
	rows, err := projections.QueryGetEquipmentList(r.Context(), projections.GetEquipmentListQuery{
		Category:      q.Get("category"),
		AvailableOnly: q.Get("available") == "true",
		Sort:          q.Get("sort"),
		Dir:           q.Get("dir"),
	}, projections.GetEquipmentListDeps{
		EquipmentStore: stores.EquipmentStore,
		CadetStore:     stores.CadetStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleCreateEquipment handles POST /api/equipment
func handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Name         string `json:"name"`
		Category     string `json:"category"`
		SerialNumber string `json:"serial_number"`
		Size         string `json:"size"`
		Condition    string `json:"condition"`
		Notes        string `json:"notes"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	item, err := orchestrators.ExecuteCreateEquipment(r.Context(), orchestrators.CreateEquipmentInput{
		Name:         input.Name,
		Category:     input.Category,
		SerialNumber: input.SerialNumber,
		Size:         input.Size,
		Condition:    input.Condition,
		Notes:        input.Notes,
		Actor:        actorFrom(r, sess),
	}, equipmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEquipmentView(item))
}

// handleAssignEquipment handles POST /api/equipment/{id}/assign
func handleAssignEquipment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		CadetID string `json:"cadet_id"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	item, err := orchestrators.ExecuteAssignEquipment(r.Context(), orchestrators.AssignEquipmentInput{
		ItemID:  r.PathValue("id"),
		CadetID: input.CadetID,
		Actor:   actorFrom(r, sess),
	}, equipmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentView(item))
}

// handleReturnEquipment handles POST /api/equipment/{id}/return
func handleReturnEquipment(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Condition string `json:"condition"`
	}
	if r.ContentLength != 0 {
		if err := strictDecode(r, &input); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	item, err := orchestrators.ExecuteReturnEquipment(r.Context(), orchestrators.ReturnEquipmentInput{
		ItemID:    r.PathValue("id"),
		Condition: input.Condition,
		Actor:     actorFrom(r, sess),
	}, equipmentDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentView(item))
}

// --- Service hours ---

type serviceView struct {
	ID           string `json:"id"`
	CadetID      string `json:"cadet_id"`
	ServiceDate  string `json:"service_date"`
	Organization string `json:"organization"`
	Description  string `json:"description"`
	Hours        string `json:"hours"`
	Status       string `json:"status"`
	ReviewedBy   string `json:"reviewed_by,omitempty"`
}

func toServiceView(rec domainService.Record) serviceView {
	return serviceView{
		ID:           rec.ID,
		CadetID:      rec.CadetID,
		ServiceDate:  rec.ServiceDate.Format(orchestrators.DateLayout),
		Organization: rec.Organization,
		Description:  rec.Description,
		Hours:        rec.Hours.String(),
		Status:       rec.Status,
		ReviewedBy:   rec.ReviewedBy,
	}
}

func serviceHoursDeps() orchestrators.ServiceHoursDeps {
	return orchestrators.ServiceHoursDeps{
		ServiceStore: stores.ServiceStore,
		Cadets:       stores.CadetStore,
		Audit:        auditRecorder(),
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

// handleListServiceHours handles GET /api/service-hours.
// Staff see every record; a cadet sees only their own.
func handleListServiceHours(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	filter := serviceStore.ListFilter{
		CadetID: r.URL.Query().Get("cadet_id"),
		Status:  r.URL.Query().Get("status"),
	}
	if !sess.IsStaff() {
		own := ownCadetID(r.Context(), sess)
		if own == "" {
			writeJSON(w, http.StatusOK, []serviceView{})
			return
		}
		filter.CadetID = own
	}
	records, err := stores.ServiceStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]serviceView, 0, len(records))
	for _, rec := range records {
		out = append(out, toServiceView(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLogServiceHours handles POST /api/service-hours.
// A cadet may omit cadet_id; their linked record is used.
func handleLogServiceHours(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		CadetID      string `json:"cadet_id"`
		ServiceDate  string `json:"service_date"`
		Organization string `json:"organization"`
		Description  string `json:"description"`
		Hours        string `json:"hours"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.CadetID == "" && sess.Role == domainAccount.RoleCadet {
		input.CadetID = ownCadetID(r.Context(), sess)
	}
	rec, err := orchestrators.ExecuteLogServiceHours(r.Context(), orchestrators.LogServiceHoursInput{
		CadetID:      input.CadetID,
		ServiceDate:  input.ServiceDate,
		Organization: input.Organization,
		Description:  input.Description,
		Hours:        input.Hours,
		Actor:        actorFrom(r, sess),
	}, serviceHoursDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceView(rec))
}

// handleReviewServiceHours handles POST /api/service-hours/{id}/review
func handleReviewServiceHours(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireStaff(w, r)
	if !ok {
		return
	}
	var input struct {
		Decision string `json:"decision"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	rec, err := orchestrators.ExecuteReviewServiceHours(r.Context(), orchestrators.ReviewServiceHoursInput{
		RecordID: r.PathValue("id"),
		Decision: input.Decision,
		Actor:    actorFrom(r, sess),
	}, serviceHoursDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceView(rec))
}

// handleServiceSummary handles GET /api/service-hours/summary
func handleServiceSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	q := r.URL.Query()
	rows, err := projections.QueryGetServiceSummary(r.Context(), projections.GetServiceSummaryQuery{
		Flight: q.Get("flight"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	}, projections.GetServiceSummaryDeps{
		CadetStore:   stores.CadetStore,
		ServiceStore: stores.ServiceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
