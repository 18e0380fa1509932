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

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("DUNE_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DUNE_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DUNE_API_KEY", "test-key")
	t.Setenv("DUNE_BASE_URL", "")
	t.Setenv("MCP_TOKEN", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Empty(t, cfg.BaseURL)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DUNE_API_KEY", "test-key")
	t.Setenv("DUNE_BASE_URL", "http://localhost:8080/api/v1")
	t.Setenv("MCP_TOKEN", "secret")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("DUNE_API_KEY", "test-key")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment line
DOTENV_PLAIN=hello
DOTENV_QUOTED="with spaces"
DOTENV_SINGLE='single'
DOTENV_TAKEN=from-file

not-a-pair
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DOTENV_PLAIN", "")
	t.Setenv("DOTENV_QUOTED", "")
	t.Setenv("DOTENV_SINGLE", "")
	t.Setenv("DOTENV_TAKEN", "from-env")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("DOTENV_PLAIN"))
	assert.Equal(t, "with spaces", os.Getenv("DOTENV_QUOTED"))
	assert.Equal(t, "single", os.Getenv("DOTENV_SINGLE"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_TAKEN"), "env vars take precedence over .env entries")
}

func TestLoadDotEnvMissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "plain", stripQuotes("plain"))
	assert.Equal(t, "quoted", stripQuotes(`"quoted"`))
	assert.Equal(t, "single", stripQuotes("'single'"))
	assert.Equal(t, `"mismatched'`, stripQuotes(`"mismatched'`))
	assert.Equal(t, `"`, stripQuotes(`"`))
}
