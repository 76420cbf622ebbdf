package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the version recorded once schema.sql is applied.
const SchemaVersion = 1

// Migrator manages database schema migrations
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new database migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Migrate applies the schema when it has not been applied yet
func (m *Migrator) Migrate() error {
	if err := m.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("create migrations table failed: %w", err)
	}

	applied, err := m.isInitialSchemaApplied()
	if err != nil {
		return fmt.Errorf("check schema version failed: %w", err)
	}
	if applied {
		return nil
	}

	if err := m.applyInitialSchema(); err != nil {
		return fmt.Errorf("apply initial schema failed: %w", err)
	}
	return nil
}

func (m *Migrator) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		);
	`)
	return err
}

func (m *Migrator) isInitialSchemaApplied() (bool, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", SchemaVersion).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyInitialSchema runs every statement of schema.sql in one transaction.
// The version row is inserted by schema.sql itself.
func (m *Migrator) applyInitialSchema() error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range splitSQLStatements(schemaSQL) {
		if strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS schema_migrations") {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("execute statement %d failed: %w\nStatement: %s", i, err, stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}
	return nil
}

// splitSQLStatements drops "--" comment lines and splits on semicolons.
func splitSQLStatements(sql string) []string {
	var cleanLines []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleanLines = append(cleanLines, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleanLines, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// Version returns the highest applied schema version, 0 when none.
func (m *Migrator) Version() (int, error) {
	var version sql.NullInt64
	if err := m.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, err
	}
	return int(version.Int64), nil
}
