package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GustavoCaso/movienight/internal/logger"
)

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	statement, err := db.PrepareContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at INTEGER NOT NULL
			)
	`)
	if err != nil {
		return err
	}
	defer statement.Close()
	_, err = statement.ExecContext(ctx)
	return err
}

type migration struct {
	name string
	up   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{
		name: "Create presets table",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS presets
				(
				 id INTEGER PRIMARY KEY,
				 name TEXT NOT NULL,
				 state TEXT NOT NULL,
				 created_at INTEGER NOT NULL,
				 UNIQUE(name) ON CONFLICT FAIL
				) STRICT;`)
			return err
		},
	},
	{
		name: "Add updated_at to presets",
		up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE presets ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0;
			`); err != nil {
				return err
			}

			_, err := tx.ExecContext(ctx, `UPDATE presets SET updated_at = created_at;`)
			return err
		},
	},
	{
		name: "Create sessions table",
		up: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS sessions
				(
				 id INTEGER PRIMARY KEY,
				 backend TEXT NOT NULL,
				 username TEXT NOT NULL,
				 user_id INTEGER NOT NULL,
				 access_token TEXT NOT NULL,
				 refresh_token TEXT NOT NULL,
				 created_at INTEGER NOT NULL,
				 updated_at INTEGER NOT NULL,
				 UNIQUE(backend)
				) STRICT;`)
			return err
		},
	},
}

func (s *sqliteStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	// Create migrations table if it doesn't exist
	if err := createMigrationsTable(ctx, s.db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get current schema version
	currentVersion := 0
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for i, m := range migrations {
		migrationVersion := i + 1
		if migrationVersion <= currentVersion {
			continue
		}

		logger.Info("Applying migration",
			"version", migrationVersion,
			"name", m.name)

		if err := s.applyMigration(ctx, migrationVersion, m); err != nil {
			return err
		}

		logger.Info("Migration applied successfully", "version", migrationVersion)
	}

	return nil
}

func (s *sqliteStorage) applyMigration(ctx context.Context, version int, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
	}

	if err = m.up(ctx, tx); err != nil {
		rErr := tx.Rollback()
		if rErr != nil {
			return rErr
		}
		return fmt.Errorf("migration %d failed: %w", version, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		version, time.Now().Unix(),
	)
	if err != nil {
		rErr := tx.Rollback()
		if rErr != nil {
			return rErr
		}
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	return nil
}
