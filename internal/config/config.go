package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig
	Data    DataConfig
	Log     LogConfig
	Server  ServerConfig
	Drafts  DraftsConfig
	Session SessionConfig
	Tracing TracingConfig
}

// APIConfig points at the backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DataConfig holds the local workspace location.
type DataConfig struct {
	Dir string
}

// DBPath is the sqlite file inside the data directory.
func (d DataConfig) DBPath() string {
	return filepath.Join(d.Dir, "pagebuilder.db")
}

// LogConfig selects the zap preset: dev or prod.
type LogConfig struct {
	Mode string
}

// ServerConfig holds the local editor HTTP server settings.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Currency       string
}

// DraftsConfig controls the local draft janitor.
type DraftsConfig struct {
	Retention     time.Duration
	PruneSchedule string `mapstructure:"prune_schedule"`
}

// SessionConfig selects where session credentials are kept: "db" or "keychain".
type SessionConfig struct {
	SecretBackend string `mapstructure:"secret_backend"`
}

// TracingConfig controls OpenTelemetry tracing. With no endpoint, spans
// are printed to stderr.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// PAGEBUILDER_, e.g. PAGEBUILDER_API_BASE_URL. An explicit path (from the
// --config flag) wins over PAGEBUILDER_CONFIG and the default location.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("data.dir", filepath.Join(home, ".local", "share", "pagebuilder"))
	v.SetDefault("log.mode", "dev")
	v.SetDefault("server.addr", "127.0.0.1:7070")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.currency", "$")
	v.SetDefault("drafts.retention", 14*24*time.Hour)
	v.SetDefault("drafts.prune_schedule", "@hourly")
	v.SetDefault("session.secret_backend", "db")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("PAGEBUILDER_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "pagebuilder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PAGEBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; a missing explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing.sample_ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}
	switch c.Session.SecretBackend {
	case "db", "keychain":
	default:
		return fmt.Errorf("config: session.secret_backend must be db or keychain, got %q", c.Session.SecretBackend)
	}
	return nil
}
