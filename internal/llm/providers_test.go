package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func serve(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func newAnthropic(t *testing.T, url string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(Config{APIKey: "test-key", Model: "claude-haiku", BaseURL: url})
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		p := newAnthropic(t, serve(t, http.StatusOK, anthropicMessage(`{"name":"a","age":1}`, "end_turn")))
		req := UserPrompt("You write flashcards.", "Go.")
		req.MaxTokens = 256
		req.Schema = testSchema()

		resp, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 50, resp.Usage.InputTokens)
		assert.Equal(t, 80, resp.Usage.TotalTokens)
		assert.Equal(t, StopEnd, resp.StopReason)
	})

	t.Run("truncated structured output", func(t *testing.T) {
		p := newAnthropic(t, serve(t, http.StatusOK, anthropicMessage(`{"name":`, "max_tokens")))
		req := UserPrompt("", "Go.")
		req.Schema = testSchema()

		_, err := p.Generate(context.Background(), req)
		var truncated *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &truncated)
	})

	t.Run("rate limit", func(t *testing.T) {
		p := newAnthropic(t, serve(t, http.StatusTooManyRequests, anthropicError("rate_limit_error")))
		_, err := p.Generate(context.Background(), UserPrompt("", "Go."))
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("server error", func(t *testing.T) {
		p := newAnthropic(t, serve(t, http.StatusInternalServerError, anthropicError("api_error")))
		_, err := p.Generate(context.Background(), UserPrompt("", "Go."))
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("model aliases", func(t *testing.T) {
		p := newAnthropic(t, "")
		assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
		p, err := NewAnthropicProvider(Config{APIKey: "k", Model: "claude-opus-x"})
		require.NoError(t, err)
		assert.Equal(t, "claude-opus-x", p.ModelID())

		_, err = NewAnthropicProvider(Config{})
		assert.Error(t, err)
	})
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func chatError(msg string) map[string]any {
	return map[string]any{"error": map[string]any{"message": msg, "type": "error"}}
}

func newOpenAI(t *testing.T, url string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(Config{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		p := newOpenAI(t, serve(t, http.StatusOK, chatCompletion(`{"name":"a","age":1}`, "stop")))
		req := UserPrompt("You write flashcards.", "Go.")
		req.Schema = testSchema()

		resp, err := p.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 40, resp.Usage.InputTokens)
		assert.Equal(t, 25, resp.Usage.OutputTokens)
		assert.Equal(t, "gpt-4o-mini", resp.Model)
		assert.Equal(t, StopEnd, resp.StopReason)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		p := newOpenAI(t, serve(t, http.StatusOK, chatCompletion(`{"name":"a"}`, "stop")))
		req := UserPrompt("", "Go.")
		req.Schema = testSchema()

		_, err := p.Generate(context.Background(), req)
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("rate limit", func(t *testing.T) {
		p := newOpenAI(t, serve(t, http.StatusTooManyRequests, chatError("slow down")))
		_, err := p.Generate(context.Background(), UserPrompt("", "Go."))
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})

	t.Run("server error", func(t *testing.T) {
		p := newOpenAI(t, serve(t, http.StatusBadGateway, chatError("down")))
		_, err := p.Generate(context.Background(), UserPrompt("", "Go."))
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})

	t.Run("openrouter", func(t *testing.T) {
		p, err := NewOpenRouterProvider(Config{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-exp"})
		require.NoError(t, err)
		assert.Equal(t, "openrouter", p.Name())
		assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())

		_, err = NewOpenRouterProvider(Config{Model: "x"})
		assert.Error(t, err)
	})
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":        "object",
		"description": "cards",
		"properties": map[string]any{
			"level": map[string]any{"type": "integer"},
			"tone":  map[string]any{"type": "string", "enum": []any{"1", "2"}},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"level"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "cards", s.Description)
	assert.Equal(t, []string{"level"}, s.Required)
	assert.Equal(t, genai.TypeInteger, s.Properties["level"].Type)
	assert.Equal(t, []string{"1", "2"}, s.Properties["tone"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)
}

func TestGeminiModelAliases(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), Config{APIKey: "k", Model: "gemini-flash"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", p.ModelID())
	assert.Equal(t, "gemini", p.Name())

	_, err = NewGeminiProvider(context.Background(), Config{})
	assert.Error(t, err)
}
