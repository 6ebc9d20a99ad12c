package sqlstore

import (
	"context"
	"fmt"
)

type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     MigrationV1,
		description: "options table",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS options (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
	},
	{
		version:     MigrationV2,
		description: "updated_at index",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_options_updated_at ON options(updated_at)`,
		},
	},
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`); err != nil {
		return fmt.Errorf("sqlstore: create migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("sqlstore schema", "version", current, "target", CurrentSchemaVersion)

	for _, m := range migrations {
		if current >= m.version {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("sqlstore: migration v%d failed: %w", m.version, err)
		}
	}
	return nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`, m.version, m.description); err != nil {
		return err
	}

	return tx.Commit()
}
