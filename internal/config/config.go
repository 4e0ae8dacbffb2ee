package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Converter ConverterConfig `mapstructure:"converter"`
	Security  SecurityConfig  `mapstructure:"security"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	Host         string `mapstructure:"host"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// Addr returns the listen address in host:port form
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type ConverterConfig struct {
	MaxBatchSize  int  `mapstructure:"max_batch_size"`
	MaxSQLLength  int  `mapstructure:"max_sql_length"`
	BatchWorkers  int  `mapstructure:"batch_workers"`
	DefaultPretty bool `mapstructure:"default_pretty"`
}

type SecurityConfig struct {
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
	EnableRateLimit    bool     `mapstructure:"enable_rate_limit"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml from path when given, otherwise from ./configs or
// the working directory. A missing file is not an error. Environment
// variables prefixed with SQLCONV_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("SQLCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	if c.Converter.MaxBatchSize <= 0 {
		return errors.New("converter.max_batch_size must be positive")
	}
	if c.Converter.MaxSQLLength <= 0 {
		return errors.New("converter.max_sql_length must be positive")
	}
	if c.Converter.BatchWorkers <= 0 {
		c.Converter.BatchWorkers = runtime.NumCPU()
	}
	if c.Security.EnableRateLimit && c.Security.RateLimitPerMinute <= 0 {
		return errors.New("security.rate_limit_per_minute must be positive when rate limiting is enabled")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.max_body_bytes", 10<<20)

	// Converter defaults
	v.SetDefault("converter.max_batch_size", 1000)
	v.SetDefault("converter.max_sql_length", 1<<20)
	v.SetDefault("converter.batch_workers", runtime.NumCPU())
	v.SetDefault("converter.default_pretty", true)

	// Security defaults
	v.SetDefault("security.rate_limit_per_minute", 600)
	v.SetDefault("security.rate_limit_burst", 50)
	v.SetDefault("security.enable_rate_limit", false)
	v.SetDefault("security.allowed_origins", []string{"*"})

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
