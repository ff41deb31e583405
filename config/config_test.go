package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"BIOSKOP_API_URL",
	"BIOSKOP_TIMEOUT",
	"BIOSKOP_MAX_ATTEMPTS",
	"BIOSKOP_LOG_LEVEL",
	"BIOSKOP_LOG_FILE",
	"BIOSKOP_STRICT",
	"BIOSKOP_SEARCH_DELAY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDelay)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIOSKOP_API_URL", "https://bioskop.example/api/")
	t.Setenv("BIOSKOP_TIMEOUT", "5s")
	t.Setenv("BIOSKOP_MAX_ATTEMPTS", "1")
	t.Setenv("BIOSKOP_LOG_LEVEL", "debug")
	t.Setenv("BIOSKOP_STRICT", "true")
	t.Setenv("BIOSKOP_SEARCH_DELAY", "0s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://bioskop.example/api", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.Strict)
	assert.Zero(t, cfg.SearchDelay)
}

func TestFromEnvInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIOSKOP_TIMEOUT", "soon")
	t.Setenv("BIOSKOP_MAX_ATTEMPTS", "0")
	t.Setenv("BIOSKOP_LOG_LEVEL", "chatty")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BIOSKOP_TIMEOUT")
	assert.Contains(t, err.Error(), "BIOSKOP_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "BIOSKOP_LOG_LEVEL")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIOSKOP_MAX_ATTEMPTS", "7")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BIOSKOP_API_URL=http://films.test/api\nBIOSKOP_MAX_ATTEMPTS=2\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("BIOSKOP_API_URL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://films.test/api", cfg.APIURL)
	assert.Equal(t, 7, cfg.MaxAttempts, "existing variables win over the file")
}
