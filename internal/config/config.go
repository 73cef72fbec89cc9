// Package config loads layered settings: defaults, an optional YAML file,
// HANZI_* environment variables and command-line flags, in increasing
// priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. HANZI_SERVER_ADDR.
const EnvPrefix = "HANZI"

// Config is the resolved application configuration.
type Config struct {
	DB      string       `mapstructure:"db"`
	Profile string       `mapstructure:"profile" validate:"required"`
	Log     LogConfig    `mapstructure:"log"`
	Server  ServerConfig `mapstructure:"server"`
	LLM     LLMConfig    `mapstructure:"llm"`
}

// LogConfig controls the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	File   string `mapstructure:"file"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	Secret       string        `mapstructure:"secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	RateLimit    float64       `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst    int           `mapstructure:"rate_burst" validate:"gte=0"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

// LLMConfig overrides the LLM provider discovery.
type LLMConfig struct {
	Provider   string `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai gemini openrouter"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=0"`
}

var defaults = map[string]any{
	"db":                   "",
	"profile":              "default",
	"log.file":             "",
	"server.secret":        "",
	"llm.provider":         "",
	"llm.model":            "",
	"log.level":            "info",
	"log.format":           "text",
	"server.addr":          "127.0.0.1:8080",
	"server.token_ttl":     "168h",
	"server.rate_limit":    10.0,
	"server.rate_burst":    20,
	"server.secure_cookie": false,
	"llm.max_retries":      3,
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"db":        "db",
	"profile":   "profile",
	"log-level": "log.level",
	"log-json":  "log.format",
	"log-file":  "log.file",
	"addr":      "server.addr",
}

// Load resolves the configuration. configFile may be empty, in which case
// $XDG_CONFIG_HOME/hanzi/config.yaml is read when present. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = defaultConfigFile()
		if _, err := os.Stat(configFile); err != nil {
			configFile = ""
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		// --log-json is a switch over log.format.
		if name == "log-json" {
			if f.Value.String() == "true" {
				v.Set(key, "json")
			}
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func defaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hanzi", "config.yaml")
}

// NewLogger builds a slog.Logger from c writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenLogFile opens c.File for appending, or fallback when File is empty.
func (c LogConfig) OpenLogFile(fallback string) (*os.File, error) {
	path := c.File
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil, errors.New("no log file configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func (c LogConfig) level() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
