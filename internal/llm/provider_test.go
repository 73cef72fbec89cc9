package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	first, err := mock.Generate(context.Background(), UserPrompt("", "first"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, StopEnd, first.StopReason)

	second, err := mock.Generate(context.Background(), UserPrompt("", "second"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(second.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "first", calls[0].Messages[0].Content)
	assert.Equal(t, 3, mock.CallCount())
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	req := UserPrompt("", "go")
	req.Schema = testSchema()

	_, err := mock.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "suggest", PurposeFrom(WithPurpose(context.Background(), "suggest")))
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolve(t *testing.T) {
	t.Run("discovers first provider with a key", func(t *testing.T) {
		cfg, err := resolve(Settings{}, envMap(map[string]string{
			"ANTHROPIC_API_KEY": "a",
			"OPENAI_API_KEY":    "o",
		}))
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "o", cfg.APIKey)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	})

	t.Run("prefixed key wins", func(t *testing.T) {
		cfg, err := resolve(Settings{Provider: "gemini", MaxRetries: 5}, envMap(map[string]string{
			"GEMINI_API_KEY":       "plain",
			"HANZI_GEMINI_API_KEY": "prefixed",
		}))
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.APIKey)
		assert.Equal(t, "gemini-flash", cfg.Model)
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	})

	t.Run("explicit model and base url", func(t *testing.T) {
		cfg, err := resolve(Settings{Provider: "openrouter", Model: "meta-llama/llama-3-8b"}, envMap(map[string]string{
			"OPENROUTER_API_KEY":        "k",
			"HANZI_OPENROUTER_BASE_URL": "http://localhost:9999",
		}))
		require.NoError(t, err)
		assert.Equal(t, "meta-llama/llama-3-8b", cfg.Model)
		assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := resolve(Settings{}, envMap(nil))
		assert.ErrorContains(t, err, "no LLM provider configured")
	})

	t.Run("selected provider without key", func(t *testing.T) {
		_, err := resolve(Settings{Provider: "anthropic"}, envMap(nil))
		assert.ErrorContains(t, err, "HANZI_ANTHROPIC_API_KEY")
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := resolve(Settings{Provider: "llama"}, envMap(nil))
		assert.ErrorContains(t, err, "unknown LLM provider")
	})
}

func TestNew(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "mock", Retry: DefaultRetry()}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
	assert.IsType(t, &RetryProvider{}, p)

	_, err = New(context.Background(), Config{Provider: "openai"}, nil)
	assert.Error(t, err)

	p, err = New(context.Background(), Config{Provider: "openrouter", APIKey: "k", Model: "x/y"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "x/y", p.ModelID())
}
