// Package suggest asks a language model for new flashcards on a topic.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/llm"
)

// MaxCount caps how many cards one request may ask for.
const MaxCount = 20

var (
	ErrNoTopic       = errors.New("topic is required")
	ErrNoSuggestions = errors.New("no usable suggestions")
)

// Config tunes the request.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxKnown limits how many existing characters are listed in the
	// prompt as already known.
	MaxKnown int
}

func DefaultConfig() Config {
	return Config{MaxTokens: 2048, Temperature: 0.7, MaxKnown: 50}
}

// Generator turns topics into card drafts.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Suggest asks provider for n cards about topic with the default config.
func Suggest(ctx context.Context, provider llm.Provider, topic string, n int) ([]card.Draft, error) {
	return New(provider, DefaultConfig()).Suggest(ctx, topic, n, nil)
}

type response struct {
	Cards []card.Draft `json:"cards"`
}

// Suggest returns up to n valid drafts. Words in known, and duplicates
// within the reply, are dropped.
func (g *Generator) Suggest(ctx context.Context, topic string, n int, known []string) ([]card.Draft, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrNoTopic
	}
	n = min(max(n, 1), MaxCount)

	req := llm.UserPrompt(systemPrompt, userMessage(topic, n, known, g.cfg.MaxKnown))
	req.Schema = CardsSchema
	req.MaxTokens = g.cfg.MaxTokens
	req.Temperature = g.cfg.Temperature

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, "suggest"), req)
	if err != nil {
		return nil, fmt.Errorf("suggest cards: %w", err)
	}

	var out response
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	seen := make(map[string]bool, len(known)+len(out.Cards))
	for _, k := range known {
		seen[strings.TrimSpace(k)] = true
	}

	drafts := make([]card.Draft, 0, n)
	for _, d := range out.Cards {
		d = d.Normalize()
		if err := d.Validate(); err != nil {
			slog.Debug("drop suggestion", "character", d.Character, "error", err)
			continue
		}
		if seen[d.Character] {
			continue
		}
		seen[d.Character] = true
		drafts = append(drafts, d)
		if len(drafts) == n {
			break
		}
	}
	if len(drafts) == 0 {
		return nil, ErrNoSuggestions
	}
	return drafts, nil
}
