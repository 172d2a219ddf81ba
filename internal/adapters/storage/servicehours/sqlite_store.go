package servicehours

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/servicehours"
)

const recordColumns = "id, cadet_id, service_date, organization, description, hours, status, reviewed_by, reviewed_at, created_at"

// SQLiteStore implements Store using SQLite.
// Hours are stored as decimal text.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new service-hours store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// GetByID retrieves a record by its ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM service_hours WHERE id = ?", id)
	r, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, ErrNotFound
	}
	return r, err
}

// Save persists a record (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, r domain.Record) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO service_hours (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			service_date=excluded.service_date,
			organization=excluded.organization,
			description=excluded.description,
			hours=excluded.hours,
			status=excluded.status,
			reviewed_by=excluded.reviewed_by,
			reviewed_at=excluded.reviewed_at`,
		r.ID, r.CadetID, storage.FormatDate(r.ServiceDate), r.Organization, r.Description,
		r.Hours.String(), r.Status, r.ReviewedBy, storage.NullableTime(r.ReviewedAt),
		storage.FormatTime(r.CreatedAt))
	return err
}

// List returns records matching the filter, newest service date first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Record, error) {
	var conds []string
	var args []any
	if filter.CadetID != "" {
		conds = append(conds, "cadet_id = ?")
		args = append(args, filter.CadetID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	query := "SELECT " + recordColumns + " FROM service_hours"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY service_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (domain.Record, error) {
	var r domain.Record
	var serviceDate, hours, createdAt string
	var reviewedAt sql.NullString
	if err := scan(&r.ID, &r.CadetID, &serviceDate, &r.Organization, &r.Description,
		&hours, &r.Status, &r.ReviewedBy, &reviewedAt, &createdAt); err != nil {
		return domain.Record{}, err
	}
	h, err := decimal.NewFromString(hours)
	if err != nil {
		return domain.Record{}, fmt.Errorf("service record %s: bad hours %q: %w", r.ID, hours, err)
	}
	r.Hours = h
	r.ServiceDate, _ = storage.ParseTime(serviceDate)
	r.CreatedAt, _ = storage.ParseTime(createdAt)
	if reviewedAt.Valid {
		r.ReviewedAt, _ = storage.ParseTime(reviewedAt.String)
	}
	return r, nil
}
