package account

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/account"
)

// ErrNotFound is returned when no account or token matches.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
	SaveToken(ctx context.Context, token domain.Token) error
	GetToken(ctx context.Context, token string) (domain.Token, error)
	MarkTokenUsed(ctx context.Context, id string) error
	InvalidateTokens(ctx context.Context, accountID, purpose string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
	Status string
}
