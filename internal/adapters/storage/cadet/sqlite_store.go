package cadet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/cadet"
)

const cadetColumns = "id, account_id, first_name, last_name, email, role_id, grade, flight, rank, cadet_year, start_year, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new cadet store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// GetByID retrieves a Cadet by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Cadet, error) {
	return s.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a Cadet by email, ignoring case.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Cadet, error) {
	return s.getOne(ctx, "email = ? COLLATE NOCASE", strings.TrimSpace(email))
}

// GetByAccountID retrieves the Cadet linked to a login account.
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Cadet, error) {
	return s.getOne(ctx, "account_id = ?", accountID)
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (domain.Cadet, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+cadetColumns+" FROM cadet WHERE "+where, arg)
	entity, err := scanCadet(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cadet{}, ErrNotFound
	}
	if err != nil {
		return domain.Cadet{}, fmt.Errorf("load cadet: %w", err)
	}
	return entity, nil
}

// Save persists a Cadet to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Cadet) error {
	var accountID any
	if entity.AccountID != "" {
		accountID = entity.AccountID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO cadet (`+cadetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id=excluded.account_id,
			first_name=excluded.first_name,
			last_name=excluded.last_name,
			email=excluded.email,
			role_id=excluded.role_id,
			grade=excluded.grade,
			flight=excluded.flight,
			rank=excluded.rank,
			cadet_year=excluded.cadet_year,
			start_year=excluded.start_year,
			status=excluded.status`,
		entity.ID, accountID, entity.FirstName, entity.LastName, entity.Email, entity.RoleID,
		entity.Grade, entity.Flight, entity.Rank, entity.CadetYear, entity.StartYear, entity.Status,
	)
	return err
}

// List retrieves Cadets matching the filter ordered by last then first name.
// A zero Limit returns every match.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Cadet, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + cadetColumns + " FROM cadet" + where + " ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Cadet
	for rows.Next() {
		entity, err := scanCadet(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of cadets matching the filter, ignoring Limit and Offset.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cadet"+where, args...).Scan(&count)
	return count, err
}

// listWhereClause builds the WHERE clause shared by List and Count.
func listWhereClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Flight != "" {
		conds = append(conds, "flight = ?")
		args = append(args, filter.Flight)
	}
	if filter.Grade != "" {
		conds = append(conds, "grade = ?")
		args = append(args, filter.Grade)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + q + "%"
		conds = append(conds, "(first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanCadet extracts a Cadet from a row scanner function.
func scanCadet(scan func(dest ...any) error) (domain.Cadet, error) {
	var entity domain.Cadet
	var accountID sql.NullString
	err := scan(
		&entity.ID,
		&accountID,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.RoleID,
		&entity.Grade,
		&entity.Flight,
		&entity.Rank,
		&entity.CadetYear,
		&entity.StartYear,
		&entity.Status,
	)
	if err != nil {
		return domain.Cadet{}, err
	}
	entity.AccountID = accountID.String
	return entity, nil
}
