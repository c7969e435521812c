package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-manager/library"
)

func TestSQLiteRoundTrip(t *testing.T) {
	lib := populatedLibrary(t)
	path := filepath.Join(t.TempDir(), "library.db")
	store := library.NewSQLiteStore(path)

	require.NoError(t, store.Save(lib))

	loaded, err := store.Load()
	require.NoError(t, err)
	assertSameState(t, lib, loaded)
}

func TestSQLiteLoadAbsentFile(t *testing.T) {
	store := library.NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	_, err := store.Load()
	assert.ErrorIs(t, err, library.ErrLoadFailed)
}

func TestSQLiteLoadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o644))

	_, err := library.NewSQLiteStore(path).Load()
	assert.ErrorIs(t, err, library.ErrLoadFailed)
}

func TestSQLiteSaveReplacesWholeArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	store := library.NewSQLiteStore(path)

	lib, _ := newTestLibrary(t, "2026-03-01")
	require.NoError(t, store.Save(lib))

	// Mutate and save again; the artifact is rebuilt from scratch.
	require.NotNil(t, lib.RemoveItem("B2"))
	require.NoError(t, store.Save(lib))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.ListItems(), 1)
	assert.Equal(t, "B1", loaded.ListItems()[0].ID())
}

func TestSQLiteSaveFailedLeavesArtifactIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.db")
	store := library.NewSQLiteStore(path)

	lib := populatedLibrary(t)
	require.NoError(t, store.Save(lib))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	badStore := library.NewSQLiteStore(filepath.Join(dir, "no-such-dir", "library.db"))
	err = badStore.Save(lib)
	assert.ErrorIs(t, err, library.ErrSaveFailed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestNewStoreSelection(t *testing.T) {
	dir := t.TempDir()

	cfg := library.DefaultConfig()
	cfg.StorePath = filepath.Join(dir, "library.json")
	store, err := library.NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &library.SnapshotStore{}, store)

	cfg.StoreKind = library.StoreKindSQLite
	cfg.StorePath = filepath.Join(dir, "library.db")
	store, err = library.NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &library.SQLiteStore{}, store)

	cfg.StoreKind = "carrier-pigeon"
	_, err = library.NewStore(cfg)
	assert.Error(t, err)
}

// The two stores persist the same record schema; an aggregate saved
// through one and the other must read back identically.
func TestStoresAgreeOnState(t *testing.T) {
	lib := populatedLibrary(t)
	dir := t.TempDir()

	snapStore := library.NewSnapshotStore(filepath.Join(dir, "library.json"))
	dbStore := library.NewSQLiteStore(filepath.Join(dir, "library.db"))
	require.NoError(t, snapStore.Save(lib))
	require.NoError(t, dbStore.Save(lib))

	fromSnap, err := snapStore.Load()
	require.NoError(t, err)
	fromDB, err := dbStore.Load()
	require.NoError(t, err)

	assertSameState(t, fromSnap, fromDB)
}
