// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/locvowork/taskboard/internal/database"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns a migrated in-memory SQLite database closed at test cleanup.
func NewSQLite(t testing.TB) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(ctx, db, database.MigrationConfig{}))
	return db
}
