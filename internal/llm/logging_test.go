package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/store"
)

func eventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:llm_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsRequests(t *testing.T) {
	events := eventRepo(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"name":"a","age":1}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	p := WithLogging(mock, events)
	ctx := WithPurpose(context.Background(), "suggest")

	req := UserPrompt("be brief", "cards about water")
	req.Schema = testSchema()
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	got, err := events.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	failed, ok := got[0], got[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "rate limited")

	assert.True(t, ok.Success)
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, "suggest", ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 7, ok.OutputTokens)
	assert.Contains(t, ok.RequestBody, "[system]\nbe brief")
	assert.Contains(t, ok.RequestBody, "[user]\ncards about water")
	assert.Contains(t, ok.RequestBody, "[schema: test-object]")
	assert.JSONEq(t, `{"name":"a","age":1}`, ok.ResponseBody)
}
