package pttest

import (
	"context"
	"database/sql"
	"errors"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/pttest"
)

const testColumns = "id, cadet_id, test_date, push_ups, sit_ups, plank_seconds, mile_seconds, notes, recorded_by, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PT test store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// GetByID retrieves a test by its ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Test, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+testColumns+" FROM pt_test WHERE id = ?", id)
	t, err := scanTest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Test{}, ErrNotFound
	}
	return t, err
}

// Save persists a test (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, t domain.Test) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO pt_test (`+testColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			test_date=excluded.test_date,
			push_ups=excluded.push_ups,
			sit_ups=excluded.sit_ups,
			plank_seconds=excluded.plank_seconds,
			mile_seconds=excluded.mile_seconds,
			notes=excluded.notes`,
		t.ID, t.CadetID, storage.FormatDate(t.TestDate), t.PushUps, t.SitUps,
		t.PlankSeconds, t.MileSeconds, t.Notes, t.RecordedBy, storage.FormatTime(t.CreatedAt))
	return err
}

// Delete removes a test.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pt_test WHERE id = ?", id)
	return err
}

// ListByCadet returns a cadet's tests, newest first.
func (s *SQLiteStore) ListByCadet(ctx context.Context, cadetID string) ([]domain.Test, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+testColumns+" FROM pt_test WHERE cadet_id = ? ORDER BY test_date DESC, created_at DESC", cadetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Test
	for rows.Next() {
		t, err := scanTest(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

func scanTest(scan func(dest ...any) error) (domain.Test, error) {
	var t domain.Test
	var testDate, createdAt string
	if err := scan(&t.ID, &t.CadetID, &testDate, &t.PushUps, &t.SitUps,
		&t.PlankSeconds, &t.MileSeconds, &t.Notes, &t.RecordedBy, &createdAt); err != nil {
		return domain.Test{}, err
	}
	t.TestDate, _ = storage.ParseTime(testDate)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}
