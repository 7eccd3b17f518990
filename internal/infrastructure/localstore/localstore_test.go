package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/cart-sync/internal/core/ports"
)

func exerciseStore(t *testing.T, store ports.LocalStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.False(t, ok, "absent key must report ok=false")

	require.NoError(t, store.Set(ctx, "cart_u1", `[{"productId":"p1","quantity":1}]`))
	require.NoError(t, store.Set(ctx, "cart_u1", `[{"productId":"p1","quantity":5}]`))

	v, ok, err := store.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"productId":"p1","quantity":5}]`, v, "set must overwrite")

	require.NoError(t, store.Remove(ctx, "cart_u1"))
	require.NoError(t, store.Remove(ctx, "cart_u1"), "removing an absent key is a no-op")

	_, ok, err = store.Get(ctx, "cart_u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "user", `{"id":"u1"}`))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)
}
