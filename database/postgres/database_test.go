//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/sharebox/sharebox/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_Lifecycle(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()
	tables := newTestTables(t)

	db, err := postgres.Connect(ctx, getDSN(pool), tables)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dropTable(ctx, pool, tables.Tags) })

	require.NoError(t, db.Ping(ctx))

	assert.Error(t, db.Validate(ctx), "validate should fail before migration")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}

func TestDropTables(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()
	tables := newTestTables(t)

	require.NoError(t, postgres.Migrate(ctx, pool, tables))
	require.NoError(t, postgres.ValidateSchema(ctx, pool, tables))

	require.NoError(t, postgres.DropTables(ctx, pool, tables))
	assert.Error(t, postgres.ValidateSchema(ctx, pool, tables))
}

func TestRepo_SetTag(t *testing.T) {
	ctx := context.Background()

	t.Run("insert and read back", func(t *testing.T) {
		repo := setupTestRepo(t)

		require.NoError(t, repo.SetTag(ctx, "share-files", "abcdef0123.pdf", "filename", "report.pdf"))

		got, err := repo.GetTags(ctx, "share-files", "abcdef0123.pdf")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"filename": "report.pdf"}, got)
	})

	t.Run("overwrite keeps one row", func(t *testing.T) {
		repo := setupTestRepo(t)

		require.NoError(t, repo.SetTag(ctx, "share-files", "k", "filename", "a.txt"))
		require.NoError(t, repo.SetTag(ctx, "share-files", "k", "filename", "b.txt"))

		got, err := repo.GetTags(ctx, "share-files", "k")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"filename": "b.txt"}, got)
	})

	t.Run("arbitrary unicode survives", func(t *testing.T) {
		repo := setupTestRepo(t)

		name := `rapport "final" (été) 🙂.pdf`
		require.NoError(t, repo.SetTag(ctx, "share-files", "k", "filename", name))

		got, err := repo.GetTags(ctx, "share-files", "k")
		require.NoError(t, err)
		assert.Equal(t, name, got["filename"])
	})
}

func TestRepo_GetTags(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	require.NoError(t, repo.SetTag(ctx, "a", "k", "filename", "one"))
	require.NoError(t, repo.SetTag(ctx, "b", "k", "filename", "two"))

	t.Run("scoped by bucket", func(t *testing.T) {
		got, err := repo.GetTags(ctx, "b", "k")
		require.NoError(t, err)
		assert.Equal(t, "two", got["filename"])
	})

	t.Run("missing object yields empty map", func(t *testing.T) {
		got, err := repo.GetTags(ctx, "a", "missing")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestNewRepo_InvalidTables(t *testing.T) {
	_, err := postgres.NewRepo(nil, postgres.Tables{Tags: "Bad-Name"})
	assert.Error(t, err)
}
