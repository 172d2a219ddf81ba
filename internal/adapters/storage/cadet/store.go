package cadet

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/cadet"
)

// ErrNotFound is returned when no cadet matches.
var ErrNotFound = errors.New("cadet not found")

// Store persists Cadet state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Cadet, error)
	GetByEmail(ctx context.Context, email string) (domain.Cadet, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Cadet, error)
	Save(ctx context.Context, value domain.Cadet) error
	List(ctx context.Context, filter ListFilter) ([]domain.Cadet, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ReferenceStore persists the role and reference lists cadet fields are checked against.
type ReferenceStore interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	SaveRole(ctx context.Context, role domain.Role) error
	ListValues(ctx context.Context, kind string) ([]string, error)
	ReplaceValues(ctx context.Context, kind string, values []string) error
	References(ctx context.Context) (domain.References, error)
}

// ListFilter carries filtering parameters for List operations.
// Search matches first name, last name or email as a substring.
type ListFilter struct {
	Limit  int
	Offset int
	Status string
	Flight string
	Grade  string
	Search string
}
