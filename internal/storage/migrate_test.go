package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func openMigrateDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n == 1
}

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Put(t.Context(), KeyTasks, []byte(`[]`)); err != nil {
		t.Fatalf("put after roundtrip failed: %v", err)
	}

	got, err := store.Get(t.Context(), KeyTasks)
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("unexpected value after roundtrip: %q", got)
	}
}

func TestMigrateUpRecordsVersionsOnce(t *testing.T) {
	db := openMigrateDB(t)
	for range 2 {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up: %v", err)
		}
	}
	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one recorded migration, got %d", rows)
	}
}

func TestMigrateDownRevertsEverything(t *testing.T) {
	db := openMigrateDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if !tableExists(t, db, "kv") {
		t.Fatal("expected kv table after migrate up")
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if tableExists(t, db, "kv") {
		t.Fatal("expected kv table dropped")
	}
	if v, err := SchemaVersion(db); err != nil || v != 0 {
		t.Fatalf("expected version 0 after down, got %d err=%v", v, err)
	}
}

func TestMigrateUpStopsAtFailingStep(t *testing.T) {
	files := fstest.MapFS{
		"migrations/0001_notes.up.sql":    {Data: []byte(`CREATE TABLE notes (id TEXT PRIMARY KEY);`)},
		"migrations/0001_notes.down.sql":  {Data: []byte(`DROP TABLE notes;`)},
		"migrations/0002_broken.up.sql":   {Data: []byte(`CREATE TABLE tags (id TEXT); CREATE TABLE nope (`)},
		"migrations/0002_broken.down.sql": {Data: []byte(`DROP TABLE tags;`)},
	}
	db := openMigrateDB(t)
	err := migrateUp(db, files)
	if err == nil || !strings.Contains(err.Error(), "0002_broken") {
		t.Fatalf("expected failure naming 0002_broken, got %v", err)
	}
	if v, err := SchemaVersion(db); err != nil || v != 1 {
		t.Fatalf("expected version 1 kept, got %d err=%v", v, err)
	}
	if !tableExists(t, db, "notes") || tableExists(t, db, "tags") {
		t.Fatal("expected only the first step applied")
	}
}

func TestLoadMigrationsRejectsBadSets(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {
			"migrations/kv.up.sql": {Data: []byte(`SELECT 1;`)},
		},
		"missing down": {
			"migrations/0001_kv.up.sql": {Data: []byte(`SELECT 1;`)},
		},
		"two names": {
			"migrations/0001_kv.up.sql":      {Data: []byte(`SELECT 1;`)},
			"migrations/0001_other.down.sql": {Data: []byte(`SELECT 1;`)},
		},
	}
	for name, files := range cases {
		if _, err := loadMigrations(files); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSplitMigrationName(t *testing.T) {
	version, name, direction, err := splitMigrationName("0012_add_index.down.sql")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if version != 12 || name != "add_index" || direction != "down" {
		t.Fatalf("unexpected parts: %d %q %q", version, name, direction)
	}
	for _, bad := range []string{"0001_kv.sql", "0001_kv.sideways.sql", "0000_kv.up.sql", "x_kv.up.sql", "0001.up.sql", "0001_kv.up.txt"} {
		if _, _, _, err := splitMigrationName(bad); !errors.Is(err, errBadMigrationName) {
			t.Fatalf("%s: expected bad name error, got %v", bad, err)
		}
	}
}
