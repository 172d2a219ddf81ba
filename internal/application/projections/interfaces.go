package projections

import (
	"context"
	"errors"

	cadetStore "jrotc/internal/adapters/storage/cadet"
	equipmentStore "jrotc/internal/adapters/storage/equipment"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	domainCadet "jrotc/internal/domain/cadet"
	domainCompetition "jrotc/internal/domain/competition"
	domainEquipment "jrotc/internal/domain/equipment"
	domainInspection "jrotc/internal/domain/inspection"
	domainPTTest "jrotc/internal/domain/pttest"
	domainService "jrotc/internal/domain/servicehours"
)

// ErrNotFound is returned when the subject of a query does not exist.
var ErrNotFound = errors.New("not found")

// CadetStore interface for cadet queries.
type CadetStore interface {
	GetByID(ctx context.Context, id string) (domainCadet.Cadet, error)
	List(ctx context.Context, filter cadetStore.ListFilter) ([]domainCadet.Cadet, error)
}

// ReferenceLoader supplies reference lists for labels and sort ordinals.
type ReferenceLoader interface {
	References(ctx context.Context) (domainCadet.References, error)
}

// PTTestStore interface for PT test queries.
type PTTestStore interface {
	ListByCadet(ctx context.Context, cadetID string) ([]domainPTTest.Test, error)
}

// InspectionStore interface for inspection queries.
type InspectionStore interface {
	ListByCadet(ctx context.Context, cadetID string) ([]domainInspection.Inspection, error)
}

// EquipmentStore interface for equipment queries.
type EquipmentStore interface {
	List(ctx context.Context, filter equipmentStore.ListFilter) ([]domainEquipment.Item, error)
}

// ServiceStore interface for service-hours queries.
type ServiceStore interface {
	List(ctx context.Context, filter serviceStore.ListFilter) ([]domainService.Record, error)
}

// CompetitionStore interface for competition result queries.
type CompetitionStore interface {
	GetCompetition(ctx context.Context, id string) (domainCompetition.Competition, error)
	GetEvent(ctx context.Context, id string) (domainCompetition.Event, error)
	GetTemplate(ctx context.Context, id string) (domainCompetition.Template, error)
	ListSheets(ctx context.Context, eventID string) ([]domainCompetition.ScoreSheet, error)
}
