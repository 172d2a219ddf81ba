package cadet

import (
	"context"
	"fmt"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/cadet"
)

// SQLiteReferenceStore implements ReferenceStore using SQLite.
type SQLiteReferenceStore struct {
	db storage.SQLDB
}

// NewSQLiteReferenceStore creates a new reference store.
func NewSQLiteReferenceStore(db storage.SQLDB) *SQLiteReferenceStore {
	return &SQLiteReferenceStore{db: db}
}

var _ ReferenceStore = (*SQLiteReferenceStore)(nil)

// ListRoles returns every role ordered by label.
func (s *SQLiteReferenceStore) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, label FROM role ORDER BY label")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var r domain.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Label); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// SaveRole inserts or updates a role.
func (s *SQLiteReferenceStore) SaveRole(ctx context.Context, role domain.Role) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO role (id, name, label) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, label=excluded.label`,
		role.ID, role.Name, role.Label)
	return err
}

// ListValues returns the values of one reference kind in display order.
func (s *SQLiteReferenceStore) ListValues(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value FROM reference_value WHERE kind = ? ORDER BY position, value", kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ReplaceValues swaps the whole list for kind in one transaction.
// PRE: kind is a valid reference kind
// POST: the stored list equals values, in order
func (s *SQLiteReferenceStore) ReplaceValues(ctx context.Context, kind string, values []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reference_value WHERE kind = ?", kind); err != nil {
		return err
	}
	for i, v := range values {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO reference_value (kind, value, position) VALUES (?, ?, ?)", kind, v, i); err != nil {
			return fmt.Errorf("insert %s value %q: %w", kind, v, err)
		}
	}
	return tx.Commit()
}

// References loads every list into the shape the validator expects.
// An empty stored list stays nil so its membership check is skipped.
func (s *SQLiteReferenceStore) References(ctx context.Context) (domain.References, error) {
	var refs domain.References
	var err error
	if refs.Roles, err = s.ListRoles(ctx); err != nil {
		return refs, err
	}
	targets := map[string]*[]string{
		domain.KindGrade:     &refs.Grades,
		domain.KindFlight:    &refs.Flights,
		domain.KindRank:      &refs.Ranks,
		domain.KindCadetYear: &refs.CadetYears,
	}
	for kind, dst := range targets {
		if *dst, err = s.ListValues(ctx, kind); err != nil {
			return refs, err
		}
	}
	return refs, nil
}
