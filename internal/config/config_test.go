package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webmention/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.EqualValues(t, 65536, cfg.HTTP.MaxFormBytes)
	require.Empty(t, cfg.Webmention.AllowedDomains)
	require.False(t, cfg.Webmention.Async)
	require.Equal(t, 10*time.Second, cfg.Fetcher.Timeout)
	require.Equal(t, 10, cfg.Fetcher.MaxRedirects)
	require.True(t, cfg.Fetcher.BlockPrivateNetworks)
	require.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	require.Equal(t, "webmention:", cfg.Storage.KeyPrefix)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
environment: production
http:
  addr: ":9000"
webmention:
  allowedDomains: "example.com|*.example.org"
  async: true
fetcher:
  timeout: 3s
  userAgent: "custom/1"
storage:
  driver: postgres
worker:
  maxWorkers: 4
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":9000", cfg.HTTP.Addr)
	require.Equal(t, "example.com|*.example.org", cfg.Webmention.AllowedDomains)
	require.True(t, cfg.Webmention.Async)
	require.Equal(t, 3*time.Second, cfg.Fetcher.Timeout)
	require.Equal(t, "custom/1", cfg.Fetcher.UserAgent)
	require.Equal(t, config.DriverPostgres, cfg.Storage.Driver)
	require.Equal(t, 4, cfg.Worker.MaxWorkers)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
webmention:
  allowedDomains: "yaml.example"
storage:
  driver: memory
`)
	t.Setenv("ALLOWED_DOMAINS", "env.example|*.env.example")
	t.Setenv("STORAGE_DRIVER", "redis")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "env.example|*.env.example", cfg.Webmention.AllowedDomains)
	require.Equal(t, config.DriverRedis, cfg.Storage.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(writeConfig(t, "storage:\n  driver: sqlite\n"))
	require.ErrorIs(t, err, config.ErrUnknownDriver)

	_, err = config.Load(writeConfig(t, "webmention:\n  async: true\nstorage:\n  driver: redis\n"))
	require.ErrorIs(t, err, config.ErrAsyncNeedsPostgres)

	_, err = config.Load(writeConfig(t, "http: [not, a, map"))
	require.Error(t, err)
}
