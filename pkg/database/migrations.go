package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator applies NNN_name.sql migrations and records them in schema_migrations
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

func (m *Migrator) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// AppliedVersions returns the versions already recorded
func (m *Migrator) AppliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// Run executes all pending migrations found at the root of fsys.
// It returns the number of migrations applied.
func (m *Migrator) Run(fsys fs.FS) (int, error) {
	m.logger.Info("Starting database migrations")

	if err := m.createMigrationsTable(); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.AppliedVersions()
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	count := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			m.logger.Debug("Skipping applied migration",
				zap.Int("version", migration.Version),
				zap.String("name", migration.Name))
			continue
		}

		m.logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		if err := m.apply(migration); err != nil {
			return count, fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		count++
	}

	m.logger.Info("Database migrations completed", zap.Int("applied", count))
	return count, nil
}

// LoadMigrations reads every .sql file at the root of fsys, sorted by version
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		filename := entry.Name()
		if entry.IsDir() || path.Ext(filename) != ".sql" {
			continue
		}

		content, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		// "001_create_invoices.sql" -> version 1, name "create_invoices"
		var version int
		if _, err := fmt.Sscanf(filename, "%d", &version); err != nil {
			return nil, fmt.Errorf("invalid migration filename format: %s", filename)
		}
		var name string
		if parts := strings.SplitN(filename, "_", 2); len(parts) == 2 {
			name = strings.TrimSuffix(parts[1], ".sql")
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (m *Migrator) apply(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		migration.Version,
		migration.Name,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
