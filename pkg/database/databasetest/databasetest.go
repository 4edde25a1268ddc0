// Package databasetest opens migrated SQLite databases for repository tests
package databasetest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/database"
)

// MigrationsPath is the absolute path of the repository's migration folder
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "pg")
}

// New opens a file backed SQLite database in a temp dir and applies every migration.
// The database is closed when the test ends.
func New(t *testing.T) database.DB {
	t.Helper()

	logger := ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
	db, err := database.Open(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "oikion.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: MigrationsPath(),
	})
	require.NoError(t, migrations.MigrateDB(db))

	return db
}
