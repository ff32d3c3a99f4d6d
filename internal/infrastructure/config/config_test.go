package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT", "SERVER_MAX_FORM_BYTES", "OTEL_ENABLED",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "OTEL_ENVIRONMENT",
		"LOG_LEVEL", "SESSION_COOKIE_NAME", "SESSION_FLASH_TTL", "INVENTORY_CATEGORIES",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "8080", cfg.Server.Port)
	require.False(t, cfg.OTLP.Enabled)
	require.Equal(t, "inventory_session", cfg.Session.CookieName)
	require.Equal(t, []string{"Electronics", "Furniture", "Clothing", "Books", "Other"}, cfg.Inventory.Categories)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: "9000"
  read_timeout: 3s
otlp:
  enabled: true
  service_name: from-file
log:
  level: debug
session:
  flash_ttl: 1m
inventory:
  categories: [Tools, Garden]
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("SESSION_FLASH_TTL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	require.True(t, cfg.OTLP.Enabled)
	require.Equal(t, "from-file", cfg.OTLP.ServiceName)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 30*time.Second, cfg.Session.FlashTTL)
	require.Equal(t, []string{"Tools", "Garden"}, cfg.Inventory.Categories)
}

func TestLoad_CategoriesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVENTORY_CATEGORIES", "Books, Music ,Games")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"Books", "Music", "Games"}, cfg.Inventory.Categories)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeFile(t, "server: [unterminated"))
		require.Error(t, err)
	})

	t.Run("BadDuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_READ_TIMEOUT", "soon")
		_, err := Load("")
		require.ErrorContains(t, err, "SERVER_READ_TIMEOUT")
	})

	t.Run("BadBool", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OTEL_ENABLED", "maybe")
		_, err := Load("")
		require.ErrorContains(t, err, "OTEL_ENABLED")
	})

	t.Run("DuplicateCategories", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVENTORY_CATEGORIES", "Books,Books")
		_, err := Load("")
		require.ErrorContains(t, err, "inventory.categories")
	})

	t.Run("UnknownLogLevel", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "loud")
		_, err := Load("")
		require.ErrorContains(t, err, "unknown log level")
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}
