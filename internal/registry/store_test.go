package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_EmptyRegistry(t *testing.T) {
	store := openTestStore(t)

	reg, err := store.LoadRegistry()
	require.NoError(t, err)
	assert.Empty(t, reg.Allocations)
	assert.Empty(t, reg.Reservations)
}

func TestSQLiteStore_SaveAndReload(t *testing.T) {
	store := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	reg := &Registry{
		Allocations: []PortAllocation{
			{Port: 3000, Project: "proj", Service: "web", Type: "web", AllocatedAt: now, Note: "main UI"},
			{Port: 5432, Project: "proj", Service: "db", Type: "postgres", AllocatedAt: now.Add(time.Second)},
		},
		Reservations: []Reservation{
			{Port: 8080, Reason: "legacy proxy", ReservedAt: now},
		},
	}
	require.NoError(t, store.SaveRegistry(reg))

	loaded, err := store.LoadRegistry()
	require.NoError(t, err)

	require.Len(t, loaded.Allocations, 2)
	assert.Equal(t, reg.Allocations[0], loaded.Allocations[0])
	assert.Equal(t, reg.Allocations[1], loaded.Allocations[1])

	require.Len(t, loaded.Reservations, 1)
	assert.Equal(t, reg.Reservations[0], loaded.Reservations[0])
}

func TestSQLiteStore_SaveReplacesDocument(t *testing.T) {
	store := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SaveRegistry(&Registry{
		Allocations: []PortAllocation{
			{Port: 3000, Project: "a", Service: "web", Type: "web", AllocatedAt: now},
			{Port: 3001, Project: "b", Service: "web", Type: "web", AllocatedAt: now},
		},
	}))

	// A save with fewer records replaces, not merges
	require.NoError(t, store.SaveRegistry(&Registry{
		Allocations: []PortAllocation{
			{Port: 3001, Project: "b", Service: "web", Type: "web", AllocatedAt: now},
		},
	}))

	loaded, err := store.LoadRegistry()
	require.NoError(t, err)
	require.Len(t, loaded.Allocations, 1)
	assert.Equal(t, "b", loaded.Allocations[0].Project)
}

func TestOpenStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "registry.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.LoadRegistry()
	assert.NoError(t, err)
}
