package tokens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "file:tokens?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_LoadEmpty(t *testing.T) {
	repo := setupRepo(t)

	tok, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestSQLiteRepository_SaveLoadClear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok-1"))
	tok, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-1", tok)

	// saving again overwrites, never duplicates
	require.NoError(t, repo.Save(ctx, "tok-2"))
	tok, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-2", tok)

	require.NoError(t, repo.Clear(ctx))
	tok, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	// clearing an already-empty store is fine
	require.NoError(t, repo.Clear(ctx))
}
