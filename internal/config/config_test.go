package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/daglig_test"

redis:
  addr: "localhost:6380"

import:
  preview_rows: 10
  session_ttl_minutes: 15
  max_upload_mb: 5

archive:
  enabled: true
  s3_bucket: "import-archive"
  s3_region: "eu-north-1"

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "postgres://localhost/daglig_test", cfg.Database.URL)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, 10, cfg.Import.PreviewRows)
	assert.Equal(t, 15*time.Minute, cfg.Import.SessionTTL())
	assert.Equal(t, 5, cfg.Import.MaxUploadMB)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "import-archive", cfg.Archive.S3Bucket)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Defaults fill the gaps the file leaves.
	assert.Equal(t, 120*time.Second, cfg.Import.LockTTL())
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.Import.PreviewRows)
	assert.Equal(t, 30*time.Minute, cfg.Import.SessionTTL())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0644))

	t.Setenv("DATABASE_URL", "postgres://env-host/daglig")
	t.Setenv("PORT", "7070")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-host/daglig", cfg.Database.URL)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFromEnv_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
