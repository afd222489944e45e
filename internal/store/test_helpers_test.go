package store

import (
	"path/filepath"
	"testing"

	"github.com/rihla-app/localbase/internal/row"
)

// createTestStore creates a file-backed store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testRow creates a row with an id and one payload field.
func testRow(id, field, value string) row.Row {
	return row.Row{
		"id":  row.String(id),
		field: row.String(value),
	}
}
