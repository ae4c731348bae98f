package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Setenv("ALQ_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ALQ_LICENSE_SECRET", "a-sufficiently-long-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 30, cfg.License.DefaultExpiryDays)
	assert.Equal(t, 64, cfg.License.EventBuffer)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ALQ_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ALQ_LICENSE_SECRET", "a-sufficiently-long-secret")
	t.Setenv("ALQ_SERVER_PORT", "9090")
	t.Setenv("ALQ_LOGGING_LEVEL", "debug")
	t.Setenv("ALQ_LICENSE_DEFAULT_EXPIRY_DAYS", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 90, cfg.License.DefaultExpiryDays)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
license:
  secret: yaml-provided-secret-value
  event_buffer: 256
logging:
  level: warn
`), 0o644))
	t.Setenv("ALQ_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "yaml-provided-secret-value", cfg.License.Secret)
	assert.Equal(t, 256, cfg.License.EventBuffer)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("ALQ_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"short secret", "ALQ_LICENSE_SECRET", "short"},
		{"bad log level", "ALQ_LOGGING_LEVEL", "verbose"},
		{"bad log format", "ALQ_LOGGING_FORMAT", "xml"},
		{"bad trace exporter", "ALQ_TRACING_EXPORTER", "jaeger"},
		{"bad sample ratio", "ALQ_TRACING_SAMPLE_RATIO", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALQ_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
			t.Setenv("ALQ_LICENSE_SECRET", "a-sufficiently-long-secret")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
