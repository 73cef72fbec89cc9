package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Providers in discovery order.
var Providers = []string{"gemini", "openai", "anthropic", "openrouter"}

var defaultModels = map[string]string{
	"anthropic":  "claude-haiku",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-flash",
	"openrouter": "google/gemini-2.0-flash-exp",
	"mock":       "mock",
}

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Retry    RetryConfig
	Timeout  time.Duration
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is three attempts starting at one second.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
	}
}

// Settings are the user-facing knobs, normally the llm.* config keys.
type Settings struct {
	Provider   string
	Model      string
	MaxRetries int
}

// Resolve builds a Config from settings plus the environment. With no
// provider set, the first provider in Providers with an API key wins.
// Keys are read from HANZI_<PROVIDER>_API_KEY, then <PROVIDER>_API_KEY.
func Resolve(s Settings) (Config, error) {
	return resolve(s, os.Getenv)
}

func resolve(s Settings, getenv func(string) string) (Config, error) {
	cfg := Config{
		Provider: s.Provider,
		Model:    s.Model,
		Retry:    DefaultRetry(),
		Timeout:  30 * time.Second,
	}
	if s.MaxRetries > 0 {
		cfg.Retry.MaxAttempts = s.MaxRetries
	}

	if cfg.Provider == "" {
		for _, p := range Providers {
			if apiKey(p, getenv) != "" {
				cfg.Provider = p
				break
			}
		}
		if cfg.Provider == "" {
			return Config{}, fmt.Errorf("no LLM provider configured: set llm.provider or one of %s",
				strings.Join(envNames(), ", "))
		}
	}

	if _, ok := defaultModels[cfg.Provider]; !ok {
		return Config{}, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	cfg.APIKey = apiKey(cfg.Provider, getenv)
	cfg.BaseURL = getenv(envPrefix(cfg.Provider) + "_BASE_URL")

	return cfg, cfg.Validate()
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
	}
	return nil
}

func envPrefix(provider string) string {
	return "HANZI_" + strings.ToUpper(provider)
}

func apiKey(provider string, getenv func(string) string) string {
	if k := getenv(envPrefix(provider) + "_API_KEY"); k != "" {
		return k
	}
	return getenv(strings.ToUpper(provider) + "_API_KEY")
}

func envNames() []string {
	names := make([]string, len(Providers))
	for i, p := range Providers {
		names[i] = strings.ToUpper(p) + "_API_KEY"
	}
	return names
}
