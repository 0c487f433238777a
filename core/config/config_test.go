package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.AllowWrites)
	assert.Equal(t, "honors", cfg.Storage.Bucket)
	assert.Equal(t, "boardgames", cfg.Database.Name)
	assert.Equal(t, 4, cfg.Sync.Workers)
	assert.Equal(t, 200, cfg.Sync.PageSize)
	assert.Equal(t, 10, cfg.Sync.PreviewLimit)
	assert.Equal(t, "snapshots/", cfg.Sync.SnapshotObject)
	assert.Equal(t, 3, cfg.Sync.Retry.MaxAttempts)
	assert.Equal(t, 200, cfg.Sync.Retry.InitialIntervalMs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("SYNC_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Sync.Workers)
	assert.Equal(t, 5, cfg.Sync.Retry.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SYNC_AWARDS_FILE=/etc/honors/awards.yaml\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SYNC_AWARDS_FILE") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/etc/honors/awards.yaml", cfg.Sync.AwardsFile)
}
