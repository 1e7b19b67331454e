package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func requireValue(t *testing.T, r *SQLiteRepository, key, want string) {
	t.Helper()
	v, ok, err := r.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "key %s missing", key)
	require.Equal(t, want, v)
}

func requireAbsent(t *testing.T, r *SQLiteRepository, key string) {
	t.Helper()
	_, ok, err := r.Get(context.Background(), key)
	require.NoError(t, err)
	require.False(t, ok, "key %s still present", key)
}

func TestGet_NotExists(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestSetMany_WritesAllPairs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	require.NoError(t, r.SetMany(context.Background(), map[string]string{"authToken": "t1", "userData": "{}"}))

	requireValue(t, r, "authToken", "t1")
	requireValue(t, r, "userData", "{}")
}

func TestSetMany_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string]string{"k": "old"}))
	require.NoError(t, r.SetMany(ctx, map[string]string{"k": "new"}))

	requireValue(t, r, "k", "new")
}

func TestDelete_RemovesKeys_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string]string{"x": "1", "y": "2", "z": "3"}))
	require.NoError(t, r.Delete(ctx, "x", "y"))
	require.NoError(t, r.Delete(ctx, "x", "y"))

	requireAbsent(t, r, "x")
	requireAbsent(t, r, "y")
	requireValue(t, r, "z", "3")
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	require.Error(t, r.SetMany(ctx, map[string]string{"k": "v"}))
	require.Error(t, r.Delete(ctx, "k"))
}
