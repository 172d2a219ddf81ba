package inspection

import (
	"context"

	domain "jrotc/internal/domain/inspection"
)

// Store persists uniform inspections.
type Store interface {
	Save(ctx context.Context, value domain.Inspection) error
	ListByCadet(ctx context.Context, cadetID string) ([]domain.Inspection, error)
}
