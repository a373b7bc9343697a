// Package testutil provides shared fixtures for tourquote tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/tourquote/internal/model"
	"github.com/Veraticus/tourquote/internal/storage"
)

// SetupTestDB creates a migrated in-memory database seeded with entries.
// The database is closed when the test ends.
//
// Example:
//
//	store := testutil.SetupTestDB(t,
//		testutil.Entry("car", "Private transfer", "transportation", "Cairo", model.CostPerGroup, "60"),
//	)
func SetupTestDB(t *testing.T, entries ...model.CatalogEntry) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if len(entries) > 0 {
		if err := store.SaveCatalogEntries(ctx, entries); err != nil {
			t.Fatalf("failed to seed catalog: %v", err)
		}
	}

	return store
}
