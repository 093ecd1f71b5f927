package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestGetLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_directory.up.sql",
		"000001_create_directory.down.sql",
		"000002_create_items.up.sql",
		"000002_create_items.down.sql",
		"000010_add_indexes.up.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	latest, err := getLatestVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, 10, latest)
}

func TestGetLatestVersionNoMigrations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	_, err := getLatestVersion(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no migration files found")
}

func TestResolveMigrationFolder(t *testing.T) {
	t.Run("AbsolutePathThatExists", func(t *testing.T) {
		dir := t.TempDir()
		ms := NewMigrationService(noopLogger(), &MigrationConfig{MigrationFolderPath: dir})
		assert.Equal(t, dir, ms.resolveMigrationFolder())
	})

	t.Run("RelativePathFallsBackToWorkingDirectory", func(t *testing.T) {
		ms := NewMigrationService(noopLogger(), &MigrationConfig{MigrationFolderPath: "does/not/exist"})
		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd+"/does/not/exist", ms.resolveMigrationFolder())
	})
}

func TestMigrateMissingFolder(t *testing.T) {
	ms := NewMigrationService(noopLogger(), &MigrationConfig{MigrationFolderPath: "/definitely/not/a/real/folder"})
	err := ms.Migrate("clover", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
