package competition

import (
	"context"
	"errors"

	domain "jrotc/internal/domain/competition"
)

// ErrNotFound is returned when no competition, event or template matches.
var ErrNotFound = errors.New("not found")

// Store persists competitions, their events, score-sheet templates and submitted sheets.
type Store interface {
	SaveCompetition(ctx context.Context, c domain.Competition) error
	GetCompetition(ctx context.Context, id string) (domain.Competition, error)
	ListCompetitions(ctx context.Context) ([]domain.Competition, error)

	SaveEvent(ctx context.Context, e domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context, competitionID string) ([]domain.Event, error)

	SaveTemplate(ctx context.Context, t domain.Template) error
	GetTemplate(ctx context.Context, id string) (domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)

	SaveSheet(ctx context.Context, s domain.ScoreSheet) error
	ListSheets(ctx context.Context, eventID string) ([]domain.ScoreSheet, error)
}
