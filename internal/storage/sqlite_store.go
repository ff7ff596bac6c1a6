package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and brings its schema up to date.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE name = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, []Op{{Key: key, Value: value}})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, []Op{{Key: key, Delete: true}})
}

func (s *SQLiteStore) Apply(ctx context.Context, ops []Op) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stamp := s.now().UTC().Format(sqliteTimeLayout)
	for _, op := range ops {
		if op.Delete {
			_, err = tx.ExecContext(ctx, `DELETE FROM kv WHERE name = ?`, op.Key)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				op.Key, string(op.Value), stamp,
			)
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write key %s: %w", op.Key, err)
		}
	}
	return tx.Commit()
}

// Keys lists the stored keys in name order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM kv ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
