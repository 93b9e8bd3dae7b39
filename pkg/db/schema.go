package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaV1 holds profiles and their listen addresses.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Profiles (multi-installation support)
CREATE TABLE IF NOT EXISTS profiles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    timezone    TEXT NOT NULL DEFAULT 'UTC',
    is_active   INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- API server config
CREATE TABLE IF NOT EXISTS api_servers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id  INTEGER NOT NULL UNIQUE REFERENCES profiles(id) ON DELETE CASCADE,
    host        TEXT NOT NULL DEFAULT '0.0.0.0',
    port        INTEGER NOT NULL DEFAULT 8080,
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(is_active);
`

// schemaV2 adds the local home registry.
const schemaV2 = `
CREATE TABLE IF NOT EXISTS homes (
    id          TEXT PRIMARY KEY,
    profile_id  INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    is_primary  INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (profile_id, name)
);

CREATE TABLE IF NOT EXISTS accessories (
    id           TEXT PRIMARY KEY,
    home_id      TEXT NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    category     TEXT NOT NULL DEFAULT '',
    manufacturer TEXT NOT NULL DEFAULT '',
    model        TEXT NOT NULL DEFAULT '',
    reachable    INTEGER NOT NULL DEFAULT 1,
    created_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS services (
    id           TEXT PRIMARY KEY,
    accessory_id TEXT NOT NULL REFERENCES accessories(id) ON DELETE CASCADE,
    type         TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    position     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS characteristics (
    id          TEXT PRIMARY KEY,
    service_id  TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
    type        TEXT NOT NULL,
    format      TEXT NOT NULL,
    value       TEXT NOT NULL DEFAULT 'null',
    readable    INTEGER NOT NULL DEFAULT 1,
    writable    INTEGER NOT NULL DEFAULT 0,
    notify      INTEGER NOT NULL DEFAULT 0,
    position    INTEGER NOT NULL DEFAULT 0,
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_homes_profile ON homes(profile_id);
CREATE INDEX IF NOT EXISTS idx_accessories_home ON accessories(home_id);
CREATE INDEX IF NOT EXISTS idx_services_accessory ON services(accessory_id);
CREATE INDEX IF NOT EXISTS idx_characteristics_service ON characteristics(service_id);
`

// migrations are applied in order; version i+1 is migrations[i].
var migrations = []string{schemaV1, schemaV2}

// Migrate applies every migration newer than the recorded schema version.
func (db *DB) Migrate(ctx context.Context) error {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	for i, ddl := range migrations {
		version := i + 1
		if version <= current {
			continue
		}
		if err := db.migrate(ctx, version, ddl); err != nil {
			return fmt.Errorf("schema v%d: %w", version, err)
		}
	}
	return nil
}

func (db *DB) migrate(ctx context.Context, version int, ddl string) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, version)
		return err
	})
}

// SchemaVersion returns the newest applied migration, 0 for a fresh file.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')`,
	).Scan(&exists)
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	return version, err
}
