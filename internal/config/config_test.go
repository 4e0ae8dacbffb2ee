package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 1000, cfg.Converter.MaxBatchSize)
	assert.Equal(t, runtime.NumCPU(), cfg.Converter.BatchWorkers)
	assert.True(t, cfg.Converter.DefaultPretty)
	assert.False(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9000"
  mode: debug
converter:
  max_batch_size: 50
  batch_workers: 2
security:
  enable_rate_limit: true
  rate_limit_per_minute: 120
logging:
  format: console
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("SQLCONV_SERVER_PORT", "9100")
	t.Setenv("SQLCONV_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 50, cfg.Converter.MaxBatchSize)
	assert.Equal(t, 2, cfg.Converter.BatchWorkers)
	assert.True(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, 120, cfg.Security.RateLimitPerMinute)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: "8000", MaxBodyBytes: 1024},
			Converter: ConverterConfig{MaxBatchSize: 10, MaxSQLLength: 100},
			Logging:   LoggingConfig{Format: "json"},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, runtime.NumCPU(), cfg.Converter.BatchWorkers)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{name: "zero batch size", mutate: func(c *Config) { c.Converter.MaxBatchSize = 0 }},
		{name: "zero sql length", mutate: func(c *Config) { c.Converter.MaxSQLLength = 0 }},
		{name: "rate limit without rate", mutate: func(c *Config) { c.Security.EnableRateLimit = true }},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
