package inspection

import (
	"context"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/inspection"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new inspection store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// Save persists an inspection.
// PRE: entity has been validated and graded
func (s *SQLiteStore) Save(ctx context.Context, i domain.Inspection) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inspection (id, cadet_id, inspected_at, score, passed, inspector, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			inspected_at=excluded.inspected_at,
			score=excluded.score,
			passed=excluded.passed,
			inspector=excluded.inspector,
			notes=excluded.notes`,
		i.ID, i.CadetID, storage.FormatDate(i.InspectedAt), i.Score, i.Passed, i.Inspector, i.Notes)
	return err
}

// ListByCadet returns a cadet's inspections, newest first.
func (s *SQLiteStore) ListByCadet(ctx context.Context, cadetID string) ([]domain.Inspection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cadet_id, inspected_at, score, passed, inspector, notes
		 FROM inspection WHERE cadet_id = ? ORDER BY inspected_at DESC`, cadetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Inspection
	for rows.Next() {
		var i domain.Inspection
		var at string
		if err := rows.Scan(&i.ID, &i.CadetID, &at, &i.Score, &i.Passed, &i.Inspector, &i.Notes); err != nil {
			return nil, err
		}
		i.InspectedAt, _ = storage.ParseTime(at)
		results = append(results, i)
	}
	return results, rows.Err()
}
