package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "block", cfg.RateLimit.Policy)
	assert.Equal(t, 1, cfg.RateLimit.DefaultBurst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "generate", cfg.Workflow.ChainAction)
	assert.Empty(t, cfg.Memory.RedisAddr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
memory:
  redis_addr: localhost:6379
  redis_db: 2
rate_limit:
  policy: reject
  default_rate: 5
  default_burst: 10
  limits:
    poster:post:
      rate: 1
      burst: 2
logging:
  level: debug
  format: json
workflow:
  chain_action: analyze
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Memory.RedisAddr)
	assert.Equal(t, 2, cfg.Memory.RedisDB)
	assert.Equal(t, "reject", cfg.RateLimit.Policy)
	assert.Equal(t, 5.0, cfg.RateLimit.DefaultRate)
	assert.Equal(t, 10, cfg.RateLimit.DefaultBurst)
	require.Contains(t, cfg.RateLimit.Limits, "poster:post")
	assert.Equal(t, 1.0, cfg.RateLimit.Limits["poster:post"].Rate)
	assert.Equal(t, 2, cfg.RateLimit.Limits["poster:post"].Burst)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "analyze", cfg.Workflow.ChainAction)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memory:\n  redis_addr: localhost:6379\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Memory.RedisAddr)
	assert.Equal(t, "block", cfg.RateLimit.Policy)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit: [not a map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
