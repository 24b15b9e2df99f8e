package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piepengu/satmath/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:llm_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"prompt_latex":"x"}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", repo, nil)
	ctx := WithPurpose(context.Background(), "item-gen")

	_, err := p.Generate(ctx, itemRequest(0))
	require.NoError(t, err)
	_, err = p.Generate(ctx, itemRequest(0))
	require.Error(t, err)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	failed, ok := events[0], events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")
	assert.True(t, ok.Success)
	assert.Equal(t, "item-gen", ok.Purpose)
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[schema: sat-item]")
	assert.JSONEq(t, `{"prompt_latex":"x"}`, ok.ResponseBody)
}

func TestLogging_RecordsCacheHits(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"n":1}`)})
	p := WithLogging(WithCache(mock, NewMemoryCache(), time.Hour), "mock", repo, nil)

	for range 2 {
		_, err := p.Generate(context.Background(), itemRequest(0))
		require.NoError(t, err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Cached)
	assert.False(t, events[1].Cached)
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestTimeout_CancelsSlowProvider(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}

func TestNewProvider_MockWithMemoryCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.Cache.Backend = "memory"

	p, err := NewProvider(context.Background(), cfg, openEventRepo(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg.Provider = "nope"
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }
