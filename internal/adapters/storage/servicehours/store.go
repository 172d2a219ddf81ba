package servicehours

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/servicehours"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("service record not found")

// Store persists community-service records.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	CadetID string
	Status  string
}
