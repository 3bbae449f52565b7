package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "app_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "update.latest_version")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "update.latest_version", "1.2"))
			v, err := s.Get(ctx, "update.latest_version")
			require.NoError(t, err)
			assert.Equal(t, "1.2", v)

			require.NoError(t, s.Put(ctx, "update.latest_version", "1.3"))
			v, err = s.Get(ctx, "update.latest_version")
			require.NoError(t, err)
			assert.Equal(t, "1.3", v)

			require.NoError(t, s.Delete(ctx, "update.latest_version"))
			_, err = s.Get(ctx, "update.latest_version")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, "missing"))
		})
	}
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()

	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			require.NoError(t, s.Close())

			_, err := s.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Put(ctx, "k", "v"), ErrClosed)
			assert.ErrorIs(t, s.Delete(ctx, "k"), ErrClosed)
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app_data.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "update.last_checked_at", "2024-05-01T10:00:00Z"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "update.last_checked_at")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", v)
}
