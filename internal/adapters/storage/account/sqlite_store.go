package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jrotc/internal/adapters/storage"
	domain "jrotc/internal/domain/account"
)

const accountColumns = "id, email, password_hash, role, status, created_at, failed_logins, locked_until, password_change_required"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return notFound(scanAccount(row.Scan))
}

// GetByEmail retrieves an Account by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ? COLLATE NOCASE", strings.TrimSpace(email))
	return notFound(scanAccount(row.Scan))
}

// Delete removes an account and its tokens.
// POST: Deleting a missing account is not an error
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM account_token WHERE account_id = ?", id); err != nil {
		return fmt.Errorf("delete account tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return tx.Commit()
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO account (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			password_hash=excluded.password_hash,
			role=excluded.role,
			status=excluded.status,
			failed_logins=excluded.failed_logins,
			locked_until=excluded.locked_until,
			password_change_required=excluded.password_change_required`,
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
		entity.Status,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.NullableTime(entity.LockedUntil),
		entity.PasswordChangeRequired,
	)
	return err
}

// List retrieves Accounts based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by email
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var b strings.Builder
	var conds []string
	var args []any

	b.WriteString("SELECT " + accountColumns + " FROM account")
	if filter.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY email")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// SaveToken persists an activation or reset token.
// PRE: token.AccountID references an existing account
func (s *SQLiteStore) SaveToken(ctx context.Context, t domain.Token) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account_token (id, account_id, token, purpose, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Token, t.Purpose,
		storage.FormatTime(t.ExpiresAt), t.Used, storage.FormatTime(t.CreatedAt))
	return err
}

// GetToken looks up a token by its secret value.
// POST: Returns the token or ErrNotFound
func (s *SQLiteStore) GetToken(ctx context.Context, token string) (domain.Token, error) {
	var t domain.Token
	var expiresAt, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, token, purpose, expires_at, used, created_at FROM account_token WHERE token = ?`, token).
		Scan(&t.ID, &t.AccountID, &t.Token, &t.Purpose, &expiresAt, &t.Used, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Token{}, ErrNotFound
	}
	if err != nil {
		return domain.Token{}, err
	}
	t.ExpiresAt, _ = storage.ParseTime(expiresAt)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}

// MarkTokenUsed flags a token as redeemed.
func (s *SQLiteStore) MarkTokenUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE account_token SET used = 1 WHERE id = ?", id)
	return err
}

// InvalidateTokens marks every outstanding token of purpose for the account as used.
// POST: no unused token of that purpose remains for accountID
func (s *SQLiteStore) InvalidateTokens(ctx context.Context, accountID, purpose string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE account_token SET used = 1 WHERE account_id = ? AND purpose = ? AND used = 0", accountID, purpose)
	return err
}

func notFound(a domain.Account, err error) (domain.Account, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&entity.Status,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
		&entity.PasswordChangeRequired,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = storage.ParseTime(lockedUntil.String)
	}
	return entity, nil
}
