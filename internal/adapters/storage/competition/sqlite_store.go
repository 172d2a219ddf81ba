package competition

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/competition"
)

// SQLiteStore implements Store using SQLite.
// Template criteria and sheet scores are stored as JSON text.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new competition store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// SaveCompetition inserts or updates a competition.
func (s *SQLiteStore) SaveCompetition(ctx context.Context, c domain.Competition) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO competition (id, name, date, location) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, date=excluded.date, location=excluded.location`,
		c.ID, c.Name, storage.FormatDate(c.Date), c.Location)
	return err
}

// GetCompetition retrieves a competition by ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetCompetition(ctx context.Context, id string) (domain.Competition, error) {
	var c domain.Competition
	var date string
	err := s.db.QueryRowContext(ctx, "SELECT id, name, date, location FROM competition WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &date, &c.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Competition{}, ErrNotFound
	}
	if err != nil {
		return domain.Competition{}, err
	}
	c.Date, _ = storage.ParseTime(date)
	return c, nil
}

// ListCompetitions returns all competitions, most recent first.
func (s *SQLiteStore) ListCompetitions(ctx context.Context) ([]domain.Competition, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, date, location FROM competition ORDER BY date DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Competition
	for rows.Next() {
		var c domain.Competition
		var date string
		if err := rows.Scan(&c.ID, &c.Name, &date, &c.Location); err != nil {
			return nil, err
		}
		c.Date, _ = storage.ParseTime(date)
		results = append(results, c)
	}
	return results, rows.Err()
}

// SaveEvent inserts or updates an event.
// PRE: the competition and template exist
func (s *SQLiteStore) SaveEvent(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO competition_event (id, competition_id, name, template_id) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, template_id=excluded.template_id`,
		e.ID, e.CompetitionID, e.Name, e.TemplateID)
	return err
}

// GetEvent retrieves an event by ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	var e domain.Event
	err := s.db.QueryRowContext(ctx,
		"SELECT id, competition_id, name, template_id FROM competition_event WHERE id = ?", id).
		Scan(&e.ID, &e.CompetitionID, &e.Name, &e.TemplateID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, ErrNotFound
	}
	return e, err
}

// ListEvents returns the events of a competition ordered by name.
func (s *SQLiteStore) ListEvents(ctx context.Context, competitionID string) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, competition_id, name, template_id FROM competition_event WHERE competition_id = ? ORDER BY name",
		competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.CompetitionID, &e.Name, &e.TemplateID); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// SaveTemplate inserts or updates a score-sheet template.
// PRE: template has been validated
func (s *SQLiteStore) SaveTemplate(ctx context.Context, t domain.Template) error {
	criteria, err := json.Marshal(t.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_template (id, name, criteria) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, criteria=excluded.criteria`,
		t.ID, t.Name, string(criteria))
	return err
}

// GetTemplate retrieves a template by ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, criteria FROM score_template WHERE id = ?", id)
	t, err := scanTemplate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Template{}, ErrNotFound
	}
	return t, err
}

// ListTemplates returns every template ordered by name.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, criteria FROM score_template ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// SaveSheet stores a submitted score sheet with its precomputed total.
// PRE: sheet was checked against its template and Total computed
func (s *SQLiteStore) SaveSheet(ctx context.Context, sh domain.ScoreSheet) error {
	scores, err := json.Marshal(sh.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_sheet (id, event_id, judge_name, entrant, scores, total, submitted_by, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.EventID, sh.JudgeName, sh.Entrant, string(scores), sh.Total.String(),
		sh.SubmittedBy, storage.FormatTime(sh.SubmittedAt))
	return err
}

// ListSheets returns every sheet for an event in submission order.
func (s *SQLiteStore) ListSheets(ctx context.Context, eventID string) ([]domain.ScoreSheet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, judge_name, entrant, scores, total, submitted_by, submitted_at
		 FROM score_sheet WHERE event_id = ? ORDER BY submitted_at, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ScoreSheet
	for rows.Next() {
		var sh domain.ScoreSheet
		var scores, total, submittedAt string
		if err := rows.Scan(&sh.ID, &sh.EventID, &sh.JudgeName, &sh.Entrant, &scores, &total,
			&sh.SubmittedBy, &submittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scores), &sh.Scores); err != nil {
			return nil, fmt.Errorf("score sheet %s: decode scores: %w", sh.ID, err)
		}
		if sh.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("score sheet %s: bad total %q: %w", sh.ID, total, err)
		}
		sh.SubmittedAt, _ = storage.ParseTime(submittedAt)
		results = append(results, sh)
	}
	return results, rows.Err()
}

func scanTemplate(scan func(dest ...any) error) (domain.Template, error) {
	var t domain.Template
	var criteria string
	if err := scan(&t.ID, &t.Name, &criteria); err != nil {
		return domain.Template{}, err
	}
	if err := json.Unmarshal([]byte(criteria), &t.Criteria); err != nil {
		return domain.Template{}, fmt.Errorf("template %s: decode criteria: %w", t.ID, err)
	}
	return t, nil
}
