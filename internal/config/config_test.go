package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `app:
  port: 8080
  gin_mode: test
  log_level: debug
identity:
  base_url: https://identity.example.com
  timeout: 5s
redis:
  addr: localhost:6379
  db: 0
store:
  backend: redis
guard:
  model_path: config/guard_model.conf
  policy_path: config/guard_policy.csv
`

func writeTestConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("CONFIG_PATH", path)
}

func TestLoad(t *testing.T) {
	t.Run("reads the yaml file", func(t *testing.T) {
		writeTestConfig(t, testConfigYAML)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "https://identity.example.com", cfg.IdentityBaseURL)
		assert.Equal(t, 5*time.Second, cfg.IdentityTimeout)
		assert.Equal(t, "redis", cfg.StoreBackend)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "eventease:session", cfg.StoreKey, "store key should default")
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		writeTestConfig(t, testConfigYAML)
		t.Setenv("IDENTITY_BASE_URL", "https://staging-identity.example.com")
		t.Setenv("REDIS_ADDR", "redis.internal:6380")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://staging-identity.example.com", cfg.IdentityBaseURL)
		assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	})

	t.Run("file backend requires a path", func(t *testing.T) {
		writeTestConfig(t, testConfigYAML)
		t.Setenv("STORE_BACKEND", "file")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file_path")
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		writeTestConfig(t, testConfigYAML)
		t.Setenv("STORE_BACKEND", "localstorage")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown store backend")
	})

	t.Run("missing config file fails", func(t *testing.T) {
		t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yml"))

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad timeout fails", func(t *testing.T) {
		writeTestConfig(t, `app:
  port: 8080
identity:
  base_url: https://identity.example.com
  timeout: soon
store:
  backend: file
  file_path: /tmp/session.db
`)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}
