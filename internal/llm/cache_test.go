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

func itemRequest(temp float64) Request {
	return Request{
		System:      "You write SAT math items.",
		Messages:    []Message{{Role: RoleUser, Content: "skill: linear_equation_mc"}},
		Schema:      &Schema{Name: "sat-item", Definition: map[string]any{"type": "object"}},
		MaxTokens:   800,
		Temperature: temp,
	}
}

func TestCache_HitServesStoredResponse(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: Usage{InputTokens: 10}},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)
	p := WithCache(mock, NewMemoryCache(), time.Hour)
	ctx := context.Background()

	first, err := p.Generate(ctx, itemRequest(0))
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.JSONEq(t, `{"n":1}`, string(first.Content))

	second, err := p.Generate(ctx, itemRequest(0))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.JSONEq(t, `{"n":1}`, string(second.Content))
	assert.Zero(t, second.Usage.InputTokens, "cache hits consume no tokens")
	assert.Equal(t, 1, mock.CallCount())
}

func TestCache_NonZeroTemperatureBypasses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`)},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)
	cache := NewMemoryCache()
	p := WithCache(mock, cache, time.Hour)

	_, err := p.Generate(context.Background(), itemRequest(0.7))
	require.NoError(t, err)
	resp, err := p.Generate(context.Background(), itemRequest(0.7))
	require.NoError(t, err)

	assert.JSONEq(t, `{"n":2}`, string(resp.Content))
	assert.Equal(t, 0, cache.Len())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithCache(mock, NewMemoryCache(), time.Hour)

	_, err := p.Generate(context.Background(), itemRequest(0))
	require.Error(t, err)

	resp, err := p.Generate(context.Background(), itemRequest(0))
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, mock.CallCount())
}

func TestCacheKey_DependsOnPrompt(t *testing.T) {
	a, err := cacheKey("m", itemRequest(0))
	require.NoError(t, err)
	b, err := cacheKey("m", itemRequest(0))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := itemRequest(0)
	other.Messages[0].Content = "skill: proportion_mc"
	c, err := cacheKey("m", other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := cacheKey("other-model", itemRequest(0))
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(val))

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, "127.0.0.1:1")
	assert.Error(t, err)

	_, err = NewRedisCache(ctx, "")
	assert.Error(t, err)
}
