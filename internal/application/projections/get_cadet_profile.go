package projections

import (
	"context"
	"time"

	equipmentStore "jrotc/internal/adapters/storage/equipment"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	domainService "jrotc/internal/domain/servicehours"
)

// PTTestView is a PT test with times rendered as M:SS.
type PTTestView struct {
	ID        string    `json:"id"`
	TestDate  time.Time `json:"test_date"`
	PushUps   int       `json:"push_ups"`
	SitUps    int       `json:"sit_ups"`
	PlankTime string    `json:"plank_time"`
	MileTime  string    `json:"mile_time"`
	Notes     string    `json:"notes"`
}

// InspectionView is one inspection result.
type InspectionView struct {
	ID          string    `json:"id"`
	InspectedAt time.Time `json:"inspected_at"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	Inspector   string    `json:"inspector"`
	Notes       string    `json:"notes"`
}

// IssuedItem is equipment currently held by the cadet.
type IssuedItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Size         string    `json:"size"`
	SerialNumber string    `json:"serial_number"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// ServiceView is one service entry with hours as text.
type ServiceView struct {
	ID           string    `json:"id"`
	ServiceDate  time.Time `json:"service_date"`
	Organization string    `json:"organization"`
	Description  string    `json:"description"`
	Hours        string    `json:"hours"`
	Status       string    `json:"status"`
}

// CadetProfile is everything shown on a cadet's page.
type CadetProfile struct {
	Cadet         CadetRow         `json:"cadet"`
	PTTests       []PTTestView     `json:"pt_tests"`
	Inspections   []InspectionView `json:"inspections"`
	Equipment     []IssuedItem     `json:"equipment"`
	Service       []ServiceView    `json:"service"`
	ApprovedHours string           `json:"approved_hours"`
	PendingHours  string           `json:"pending_hours"`
}

// GetCadetProfileDeps holds dependencies for GetCadetProfile.
type GetCadetProfileDeps struct {
	CadetStore      CadetStore
	References      ReferenceLoader
	PTTestStore     PTTestStore
	InspectionStore InspectionStore
	EquipmentStore  EquipmentStore
	ServiceStore    ServiceStore
}

// QueryGetCadetProfile assembles a cadet's profile.
// PRE: cadetID is non-empty
// POST: Returns ErrNotFound when the cadet does not exist; lists are never nil
func QueryGetCadetProfile(ctx context.Context, cadetID string, deps GetCadetProfileDeps) (CadetProfile, error) {
	c, err := deps.CadetStore.GetByID(ctx, cadetID)
	if err != nil {
		return CadetProfile{}, ErrNotFound
	}
	refs, err := deps.References.References(ctx)
	if err != nil {
		return CadetProfile{}, err
	}

	tests, err := deps.PTTestStore.ListByCadet(ctx, c.ID)
	if err != nil {
		return CadetProfile{}, err
	}
	inspections, err := deps.InspectionStore.ListByCadet(ctx, c.ID)
	if err != nil {
		return CadetProfile{}, err
	}
	items, err := deps.EquipmentStore.List(ctx, equipmentStore.ListFilter{AssignedCadetID: c.ID})
	if err != nil {
		return CadetProfile{}, err
	}
	records, err := deps.ServiceStore.List(ctx, serviceStore.ListFilter{CadetID: c.ID})
	if err != nil {
		return CadetProfile{}, err
	}

	p := CadetProfile{
		Cadet:       toCadetRow(c, refs),
		PTTests:     make([]PTTestView, 0, len(tests)),
		Inspections: make([]InspectionView, 0, len(inspections)),
		Equipment:   make([]IssuedItem, 0, len(items)),
		Service:     make([]ServiceView, 0, len(records)),
	}
	for _, t := range tests {
		p.PTTests = append(p.PTTests, PTTestView{
			ID:        t.ID,
			TestDate:  t.TestDate,
			PushUps:   t.PushUps,
			SitUps:    t.SitUps,
			PlankTime: t.PlankTime(),
			MileTime:  t.MileTime(),
			Notes:     t.Notes,
		})
	}
	for _, i := range inspections {
		p.Inspections = append(p.Inspections, InspectionView{
			ID: i.ID, InspectedAt: i.InspectedAt, Score: i.Score, Passed: i.Passed, Inspector: i.Inspector, Notes: i.Notes,
		})
	}
	for _, it := range items {
		p.Equipment = append(p.Equipment, IssuedItem{
			ID: it.ID, Name: it.Name, Category: it.Category, Size: it.Size, SerialNumber: it.SerialNumber, AssignedAt: it.AssignedAt,
		})
	}
	for _, r := range records {
		p.Service = append(p.Service, ServiceView{
			ID: r.ID, ServiceDate: r.ServiceDate, Organization: r.Organization, Description: r.Description,
			Hours: r.Hours.String(), Status: r.Status,
		})
	}
	totals := domainService.Sum(records)
	p.ApprovedHours = totals.Approved.String()
	p.PendingHours = totals.Pending.String()
	return p, nil
}
