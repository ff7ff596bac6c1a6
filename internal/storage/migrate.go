package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migration is one numbered schema step: NNNN_name.up.sql and its matching
// NNNN_name.down.sql.
type migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m migration) String() string {
	return fmt.Sprintf("%04d_%s", m.Version, m.Name)
}

var errBadMigrationName = errors.New("storage: migration file must be named NNNN_name.up.sql or NNNN_name.down.sql")

// splitMigrationName reads "0001_kv.up.sql" as version 1, name "kv",
// direction "up".
func splitMigrationName(file string) (int, string, string, error) {
	stem, ok := strings.CutSuffix(file, ".sql")
	if !ok {
		return 0, "", "", fmt.Errorf("%w: %s", errBadMigrationName, file)
	}
	dot := strings.LastIndexByte(stem, '.')
	if dot < 0 {
		return 0, "", "", fmt.Errorf("%w: %s", errBadMigrationName, file)
	}
	stem, direction := stem[:dot], stem[dot+1:]
	if direction != "up" && direction != "down" {
		return 0, "", "", fmt.Errorf("%w: %s", errBadMigrationName, file)
	}
	num, name, ok := strings.Cut(stem, "_")
	version, err := strconv.Atoi(num)
	if !ok || name == "" || err != nil || version < 1 {
		return 0, "", "", fmt.Errorf("%w: %s", errBadMigrationName, file)
	}
	return version, name, direction, nil
}

func loadMigrations(files fs.FS) ([]migration, error) {
	names, err := fs.Glob(files, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	byVersion := make(map[int]*migration)
	for _, name := range names {
		version, label, direction, err := splitMigrationName(path.Base(name))
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		m, ok := byVersion[version]
		if !ok {
			m = &migration{Version: version, Name: label}
			byVersion[version] = m
		}
		if m.Name != label {
			return nil, fmt.Errorf("storage: migration %04d has two names: %s and %s", version, m.Name, label)
		}
		if direction == "up" {
			m.Up = string(body)
		} else {
			m.Down = string(body)
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("storage: migration %s needs both up and down files", m)
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b migration) int { return a.Version - b.Version })
	return out, nil
}

// MigrateUp applies every migration not yet recorded in schema_migrations,
// each in its own transaction.
func MigrateUp(db *sql.DB) error {
	return migrateUp(db, migrationFiles)
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	return migrateDown(db, migrationFiles)
}

// SchemaVersion is the highest applied migration version, or 0.
func SchemaVersion(db *sql.DB) (int, error) {
	if err := ensureSchemaTable(db); err != nil {
		return 0, err
	}
	var v int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func migrateUp(db *sql.DB, files fs.FS) error {
	migrations, err := loadMigrations(files)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.Up); err != nil {
				return err
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m, err)
		}
	}
	return nil
}

func migrateDown(db *sql.DB, files fs.FS) error {
	migrations, err := loadMigrations(files)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, m := range slices.Backward(migrations) {
		if !applied[m.Version] {
			continue
		}
		err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.Down); err != nil {
				return err
			}
			_, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = ?`, m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("revert migration %s: %w", m, err)
		}
	}
	return nil
}

func ensureSchemaTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	if err := ensureSchemaTable(db); err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("read applied migrations: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
