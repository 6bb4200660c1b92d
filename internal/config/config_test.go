package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("env: dev\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "memory", cfg.State.Backend)
	assert.Equal(t, 24*time.Hour, cfg.State.TTL)
	assert.Equal(t, "FBAFBA", cfg.Brand.DefaultTenant)
	assert.Equal(t, 60.0, cfg.Brand.Cutoff)
	assert.Equal(t, "AvailableForReturns", cfg.Returns.EligibilityRule)
	assert.Equal(t, time.Duration(0), cfg.Session.TokenTTL)
	assert.Equal(t, 0, cfg.OMS.Retries)
	assert.False(t, cfg.Transcript.Enabled)
	assert.Equal(t, 50, cfg.Transcript.Limit)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `
state:
  backend: redis
  redis:
    addr: redis:6379
session:
  token_ttl: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("OMS_BASE_URL", "https://oms.example.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.State.Backend)
	assert.Equal(t, "redis:6379", cfg.State.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TokenTTL)
	assert.Equal(t, "https://oms.example.test", cfg.OMS.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
