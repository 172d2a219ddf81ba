package pttest

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/pttest"
)

// ErrNotFound is returned when no test matches.
var ErrNotFound = errors.New("pt test not found")

// Store persists PT test results.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Test, error)
	Save(ctx context.Context, value domain.Test) error
	Delete(ctx context.Context, id string) error
	ListByCadet(ctx context.Context, cadetID string) ([]domain.Test, error)
}
