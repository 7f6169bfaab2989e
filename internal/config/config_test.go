package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults for missing keys", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the remaining values come from env-default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 3, conf.Match.DefaultRounds)
		assert.Equal(t, 24*time.Hour, conf.Match.TTL)
		assert.Equal(t, 5, conf.Match.MaxRetries)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a file with a port and an environment variable with another one
		path := writeConfig(t, "http-port: \"8080\"\nmatch:\n  default-rounds: 5\n  ttl: 1h\n")
		t.Setenv("HTTP_PORT", "7070")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, 5, conf.Match.DefaultRounds)
		assert.Equal(t, time.Hour, conf.Match.TTL)
	})

	t.Run("Rejects non positive default rounds", func(t *testing.T) {
		path := writeConfig(t, "match:\n  default-rounds: -1\n")

		_, err := Load(path)

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Fails on missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		assert.Error(t, err)
	})

	t.Run("MustLoad panics on missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
