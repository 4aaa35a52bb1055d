// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the schema is loaded for tests. Setup uses
// db.GetSchemaSQL() so tests run against the authoritative schema.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/apigen/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRun inserts a finished run for entity.
func seedRun(t *testing.T, db *sql.DB, id, entity string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO runs (id, entity, source, status, started_at) VALUES (?, ?, 'json', 'succeeded', '2026-01-01T00:00:00Z')",
		id, entity,
	)
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
}
