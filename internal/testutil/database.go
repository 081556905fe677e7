// Package testutil provides shared helpers for tests that need a real
// migrated store or deterministic collaborator stand-ins.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/storage"
)

// SetupTestDB creates a new in-memory test database with migrations applied
// and cleanup registered.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// StubGeocoder resolves every lookup to a fixed area name, or to
// model.UnknownArea when Fail is set.
type StubGeocoder struct {
	mu    sync.Mutex
	Area  string
	Fail  bool
	Calls int
}

// ReverseGeocode implements the dedup.Geocoder contract.
func (g *StubGeocoder) ReverseGeocode(_ context.Context, point model.GeoPoint) string {
	g.mu.Lock()
	g.Calls++
	g.mu.Unlock()
	if g.Fail {
		return model.UnknownArea
	}
	if g.Area != "" {
		return g.Area
	}
	return fmt.Sprintf("Ward %.2f/%.2f", point.Lat, point.Lon)
}
