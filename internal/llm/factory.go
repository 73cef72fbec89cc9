package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/hanzi/internal/store"
)

// New builds the provider named by cfg. Calls pass through retry, then the
// request log, then the provider itself. A nil events repo skips the log.
func New(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg)
	case "openai":
		base, err = NewOpenAIProvider(cfg)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		base = WithLogging(base, events)
	}
	return WithRetry(base, cfg.Retry), nil
}
