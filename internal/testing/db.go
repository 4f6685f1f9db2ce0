// Package testing provides test helpers shared across vault packages.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/praxos/vaults/internal/database"
)

// NewTestDB creates a migrated SQLite database in a per-test temporary directory.
// Names with a registered schema ("vaults") get their tables; other names
// produce an empty database. The cleanup function is safe to call more than once.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("test_%s.db", name)),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
}
