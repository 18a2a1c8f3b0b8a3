// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production. Do not
// hardcode CREATE TABLE statements in test files; use setupTestDB() and the
// seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/waterwatch/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err = testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

var seedSeq int

// seedReport inserts a test report and returns its ID.
func seedReport(t *testing.T, db *sql.DB, pinCode, district, status string) string {
	t.Helper()
	seedSeq++
	id := fmt.Sprintf("seed-report-%04d", seedSeq)
	_, err := db.Exec(
		`INSERT INTO reports (id, problem, source_type, severity_hint, pin_code, locality_name, district, status, submitter_role, created_at) VALUES (?, 'foul smelling water', 'domestic', 'high', ?, 'Test Colony', ?, ?, 'citizen', ?)`,
		id, pinCode, district, status, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return id
}

// seedAssignment inserts a test assignment and returns its ID.
func seedAssignment(t *testing.T, db *sql.DB, id, pinCode, district, status string) string {
	t.Helper()
	if id == "" {
		id = "ASG-001"
	}
	_, err := db.Exec(
		`INSERT INTO assignments (id, pin_code, district, locality_name, description, status, report_count, created_at) VALUES (?, ?, ?, 'Test Colony', 'escalated for testing', ?, 0, ?)`,
		id, pinCode, district, status, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return id
}
