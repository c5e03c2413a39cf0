package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  username: cadence
  password: secret
storage:
  root: ~/Music/cadence
concurrency:
  download_workers: 2
`), 0o600))

	t.Setenv("RETRY_CAP", "5")
	t.Setenv("DOWNLOAD_TEMP_DIR", "/tmp/cadence-test")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "cadence", config.Database.User)
	assert.Equal(t, "CADENCE_DB", config.Database.Name)
	assert.Equal(t, 2, config.Concurrency.DownloadWorkers)
	assert.Equal(t, 5, config.Concurrency.RetryCap)
	assert.Equal(t, 60, config.Concurrency.RetryBaseSeconds)
	assert.Equal(t, 3600, config.Source.MaxDurationSeconds)
	assert.Equal(t, 10, config.Sweeper.Batch)
	assert.Equal(t, 7, config.Sweeper.RetentionDays)
	assert.Equal(t, "cadence:downloads", config.Queue.StreamKey)
	assert.Equal(t, 5*time.Second, config.Concurrency.PollInterval)
	assert.Equal(t, "/tmp/cadence-test", config.Downloader.TempDir)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Music", "cadence"), config.Storage.RootPath)
	assert.False(t, config.Services.EnablePostgres)
	assert.Equal(t, "0.0.0.0:8080", config.Api.HostAddr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
