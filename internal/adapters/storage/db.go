package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	statements  string
}

// migrations are applied in order. Never edit a released entry; append a new one.
var migrations = []migration{
	{1, "accounts and cadets", `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		password_change_required INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS account_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		purpose TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS role (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reference_value (
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (kind, value)
	);

	CREATE TABLE IF NOT EXISTS cadet (
		id TEXT PRIMARY KEY,
		account_id TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role_id TEXT NOT NULL,
		grade TEXT NOT NULL DEFAULT '',
		flight TEXT NOT NULL DEFAULT '',
		rank TEXT NOT NULL DEFAULT '',
		cadet_year TEXT NOT NULL DEFAULT '',
		start_year INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active'
	);
	CREATE INDEX IF NOT EXISTS idx_cadet_account ON cadet(account_id);
	`},
	{2, "fitness, inspections, equipment, service hours", `
	CREATE TABLE IF NOT EXISTS pt_test (
		id TEXT PRIMARY KEY,
		cadet_id TEXT NOT NULL,
		test_date TEXT NOT NULL,
		push_ups INTEGER NOT NULL DEFAULT 0,
		sit_ups INTEGER NOT NULL DEFAULT 0,
		plank_seconds INTEGER NOT NULL DEFAULT 0,
		mile_seconds INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		recorded_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (cadet_id) REFERENCES cadet(id)
	);
	CREATE INDEX IF NOT EXISTS idx_pt_test_cadet ON pt_test(cadet_id, test_date);

	CREATE TABLE IF NOT EXISTS inspection (
		id TEXT PRIMARY KEY,
		cadet_id TEXT NOT NULL,
		inspected_at TEXT NOT NULL,
		score INTEGER NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		inspector TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (cadet_id) REFERENCES cadet(id)
	);
	CREATE INDEX IF NOT EXISTS idx_inspection_cadet ON inspection(cadet_id, inspected_at);

	CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		condition TEXT NOT NULL,
		assigned_cadet_id TEXT,
		assigned_at TEXT,
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS service_hours (
		id TEXT PRIMARY KEY,
		cadet_id TEXT NOT NULL,
		service_date TEXT NOT NULL,
		organization TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		hours TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reviewed_by TEXT NOT NULL DEFAULT '',
		reviewed_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (cadet_id) REFERENCES cadet(id)
	);
	CREATE INDEX IF NOT EXISTS idx_service_hours_cadet ON service_hours(cadet_id);
	`},
	{3, "competitions and score sheets", `
	CREATE TABLE IF NOT EXISTS competition (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS score_template (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		criteria TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS competition_event (
		id TEXT PRIMARY KEY,
		competition_id TEXT NOT NULL,
		name TEXT NOT NULL,
		template_id TEXT NOT NULL,
		FOREIGN KEY (competition_id) REFERENCES competition(id),
		FOREIGN KEY (template_id) REFERENCES score_template(id)
	);

	CREATE TABLE IF NOT EXISTS score_sheet (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		judge_name TEXT NOT NULL,
		entrant TEXT NOT NULL,
		scores TEXT NOT NULL,
		total TEXT NOT NULL,
		submitted_by TEXT NOT NULL DEFAULT '',
		submitted_at TEXT NOT NULL,
		FOREIGN KEY (event_id) REFERENCES competition_event(id)
	);
	CREATE INDEX IF NOT EXISTS idx_score_sheet_event ON score_sheet(event_id);
	`},
	{4, "audit log", `
	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		category TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		actor_email TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_event_timestamp ON audit_event(timestamp);
	`},
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// InitDB enables the connection pragmas and migrates the schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return MigrateDB(context.Background(), db)
}

// MigrateDB applies every migration newer than the recorded schema version.
// Each migration runs in its own transaction together with its version bump.
// PRE: db is a valid database connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, or 0 for a fresh database.
func SchemaVersion(ctx context.Context, db SQLDB) (int, error) {
	var tables int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tables); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.statements); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}
