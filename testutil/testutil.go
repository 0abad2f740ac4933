// Package testutil wires the test database and survey fixtures. Tests run
// against sqlite in a per-test temp dir; production runs postgres, and the
// schema (including the partial unique index on open runs) is identical on
// both.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"

	"github.com/evai-live/evai-bot/db"
)

// SetupTestDB points the db package at a fresh sqlite file. The busy timeout
// keeps concurrent writers queued instead of failing, same role the
// connection pool plays against postgres.
func SetupTestDB(t *testing.T) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)"
	if err := db.ConnectWith(sqlite.Open(dsn)); err != nil {
		t.Fatalf("Failed to set up test database: %v", err)
	}
}

// SetupSurveysDir writes the given definitions as <key>.json fixtures and
// points SURVEYS_DIR at them for the duration of the test.
func SetupSurveysDir(t *testing.T, definitions map[string]string) {
	t.Helper()

	dir := t.TempDir()
	for key, body := range definitions {
		if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write survey fixture %s: %v", key, err)
		}
	}
	t.Setenv("SURVEYS_DIR", dir)
}
