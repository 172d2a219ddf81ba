package equipment

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/equipment"
)

const itemColumns = "id, name, category, serial_number, size, condition, assigned_cadet_id, assigned_at, notes"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new equipment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// GetByID retrieves an item by its ID.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM equipment WHERE id = ?", id)
	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, ErrNotFound
	}
	return item, err
}

// Save persists an item (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, i domain.Item) error {
	var assigned any
	if i.AssignedCadetID != "" {
		assigned = i.AssignedCadetID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO equipment (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			category=excluded.category,
			serial_number=excluded.serial_number,
			size=excluded.size,
			condition=excluded.condition,
			assigned_cadet_id=excluded.assigned_cadet_id,
			assigned_at=excluded.assigned_at,
			notes=excluded.notes`,
		i.ID, i.Name, i.Category, i.SerialNumber, i.Size, i.Condition,
		assigned, storage.NullableTime(i.AssignedAt), i.Notes)
	return err
}

// List returns items matching the filter ordered by category then name.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Item, error) {
	var conds []string
	var args []any
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.AssignedCadetID != "" {
		conds = append(conds, "assigned_cadet_id = ?")
		args = append(args, filter.AssignedCadetID)
	}
	if filter.AvailableOnly {
		conds = append(conds, "assigned_cadet_id IS NULL AND condition != ?")
		args = append(args, domain.ConditionRetired)
	}
	query := "SELECT " + itemColumns + " FROM equipment"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY category, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func scanItem(scan func(dest ...any) error) (domain.Item, error) {
	var i domain.Item
	var assigned, assignedAt sql.NullString
	if err := scan(&i.ID, &i.Name, &i.Category, &i.SerialNumber, &i.Size, &i.Condition,
		&assigned, &assignedAt, &i.Notes); err != nil {
		return domain.Item{}, err
	}
	i.AssignedCadetID = assigned.String
	if assignedAt.Valid {
		i.AssignedAt, _ = storage.ParseTime(assignedAt.String)
	}
	return i, nil
}
