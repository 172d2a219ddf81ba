package equipment

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/equipment"
)

// ErrNotFound is returned when no item matches.
var ErrNotFound = errors.New("equipment item not found")

// Store persists equipment items.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	List(ctx context.Context, filter ListFilter) ([]domain.Item, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Category        string
	AssignedCadetID string
	AvailableOnly   bool
}
