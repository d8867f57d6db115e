// Package config loads server configuration from defaults, an optional
// YAML file, and STUBFORCE_-prefixed environment variables, in that
// precedence order (lowest to highest).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/stubforce/stubforce/internal/adapter"
)

const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 8081
	DefaultAPIVersion = "59.0"
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRows    = 2000
	DefaultLogLevel   = "info"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	APIVersion string `koanf:"api_version"`
}

// TargetConfig selects and configures the backing store.
type TargetConfig struct {
	Type     string `koanf:"type"`
	Path     string `koanf:"path"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Seed     bool   `koanf:"seed"`
}

// QueryConfig bounds query execution.
type QueryConfig struct {
	Timeout time.Duration `koanf:"timeout"`
	MaxRows int           `koanf:"max_rows"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Target TargetConfig `koanf:"target"`
	Query  QueryConfig  `koanf:"query"`
	Log    LogConfig    `koanf:"log"`
}

// AdapterConfig converts the target section into an adapter configuration.
func (c *Config) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     c.Target.Type,
		Path:     c.Target.Path,
		Host:     c.Target.Host,
		Port:     c.Target.Port,
		Database: c.Target.Database,
		Username: c.Target.Username,
		Password: c.Target.Password,
	}
}

// Load reads configuration. cfgFile may be empty, in which case
// stubforce.yaml and stubforce.yml are tried in the working directory; a
// missing file is not an error, the defaults and environment still apply.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"server.host":        DefaultHost,
		"server.port":        DefaultPort,
		"server.api_version": DefaultAPIVersion,
		"target.type":        "sqlite",
		"target.path":        ":memory:",
		"target.seed":        true,
		"query.timeout":      DefaultTimeout,
		"query.max_rows":     DefaultMaxRows,
		"log.level":          DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// STUBFORCE_SERVER_PORT -> server.port
	if err := k.Load(env.Provider("STUBFORCE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "STUBFORCE_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if !adapter.IsRegistered(c.Target.Type) {
		return fmt.Errorf("unknown target type %q (available: %s)",
			c.Target.Type, strings.Join(adapter.ListAdapters(), ", "))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Query.Timeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %s", c.Query.Timeout)
	}
	if c.Query.MaxRows <= 0 {
		return fmt.Errorf("query max_rows must be positive, got %d", c.Query.MaxRows)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// Logger builds a slog logger honoring the configured level.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"stubforce.yaml", "stubforce.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
