package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the Store contract against any implementation.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Absent key reads as (nil, nil).
	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Round trip.
	require.NoError(t, store.Set(ctx, "deck_a", []byte(`{"title":"A"}`)))
	got, err = store.Get(ctx, "deck_a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"title":"A"}`), got)

	// Overwrite replaces.
	require.NoError(t, store.Set(ctx, "deck_a", []byte(`{"title":"A2"}`)))
	got, err = store.Get(ctx, "deck_a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"title":"A2"}`), got)

	// Prefix listing sees only matching keys.
	require.NoError(t, store.Set(ctx, "deck_b", []byte("b")))
	require.NoError(t, store.Set(ctx, "other_c", []byte("c")))
	keys, err := store.ListKeys(ctx, "deck_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"deck_a", "deck_b"}, keys)

	// Delete is idempotent.
	require.NoError(t, store.Delete(ctx, "deck_a"))
	require.NoError(t, store.Delete(ctx, "deck_a"))
	got, err = store.Get(ctx, "deck_a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "casedeck.db"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casedeck.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", []byte("survives")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}
