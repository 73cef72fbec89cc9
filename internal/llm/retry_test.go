package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// retrying returns a RetryProvider that records its waits instead of
// sleeping.
func retrying(inner Provider) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

var okContent = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_FirstAttempt(t *testing.T) {
	mock := NewMockProvider(okContent)
	p, waits := retrying(mock)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 1, mock.CallCount())
	assert.Empty(t, *waits)
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(down(), okContent)
	p, waits := retrying(mock)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())
	require.Len(t, *waits, 1)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), okContent)
	p, waits := retrying(mock)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(200*time.Millisecond), float64((*waits)[1]), float64(40*time.Millisecond))
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}}, okContent)
	p, _ := retrying(mock)

	_, err := p.Generate(context.Background(), Request{})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	mock := NewMockProvider(bad, bad, okContent)
	p, _ := retrying(mock)

	_, err := p.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextCancelled(t *testing.T) {
	mock := NewMockProvider(down(), okContent)
	p, _ := retrying(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}}, okContent)
	p, waits := retrying(mock)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetry_Delegates(t *testing.T) {
	p, _ := retrying(NewMockProvider())
	assert.Equal(t, "mock", p.ModelID())
	assert.Equal(t, "mock", p.Name())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&ErrRateLimit{}))
	assert.True(t, IsTransient(&ErrProviderUnavailable{}))
	assert.False(t, IsTransient(&ErrInvalidResponse{}))
	assert.False(t, IsTransient(errors.New("other")))
}
