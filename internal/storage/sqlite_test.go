package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("empty path rejected", func(t *testing.T) {
		_, err := NewSQLiteStorage("")
		require.Error(t, err)
	})

	t.Run("in-memory database", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		require.NoError(t, store.Close())
	})
}

func TestMigrate(t *testing.T) {
	store := newTestStorage(t)

	// Running migrations again is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestLockKey(t *testing.T) {
	require.Equal(t, LockKey("school", "education"), LockKey("school", "education"))
	require.NotEqual(t, LockKey("school", "education"), LockKey("school", "healthcare"))
	// The separator keeps ambiguous concatenations apart.
	require.NotEqual(t, LockKey("ab", "c"), LockKey("a", "bc"))
}

func TestLock(t *testing.T) {
	store := newTestStorage(t)

	unlock := store.Lock("k")
	acquired := make(chan struct{})
	go func() {
		innerUnlock := store.Lock("k")
		close(acquired)
		innerUnlock()
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	<-acquired
}
