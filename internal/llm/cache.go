package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache stores serialized responses by request key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// CachingProvider serves repeated temperature-zero requests from a Cache.
type CachingProvider struct {
	inner Provider
	cache Cache
	ttl   time.Duration
}

// WithCache wraps a Provider with a response cache.
func WithCache(p Provider, c Cache, ttl time.Duration) Provider {
	return &CachingProvider{inner: p, cache: c, ttl: ttl}
}

type cachedResponse struct {
	Content    json.RawMessage `json:"content"`
	Model      string          `json:"model"`
	StopReason string          `json:"stop_reason"`
}

func (c *CachingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Temperature != 0 {
		return c.inner.Generate(ctx, req)
	}

	key, err := cacheKey(c.inner.ModelID(), req)
	if err != nil {
		return c.inner.Generate(ctx, req)
	}

	// A failing cache degrades to a miss.
	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var cr cachedResponse
		if json.Unmarshal(raw, &cr) == nil {
			return &Response{
				Content:    cr.Content,
				Model:      cr.Model,
				StopReason: cr.StopReason,
				Cached:     true,
			}, nil
		}
	}

	resp, err := c.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cachedResponse{
		Content:    resp.Content,
		Model:      resp.Model,
		StopReason: resp.StopReason,
	}); err == nil {
		_ = c.cache.Set(ctx, key, raw, c.ttl)
	}
	return resp, nil
}

func (c *CachingProvider) ModelID() string {
	return c.inner.ModelID()
}

// cacheKey hashes the model and every request field that affects output.
func cacheKey(model string, req Request) (string, error) {
	payload := struct {
		Model    string         `json:"model"`
		System   string         `json:"system"`
		Messages []Message      `json:"messages"`
		Schema   string         `json:"schema,omitempty"`
		Def      map[string]any `json:"def,omitempty"`
		Max      int            `json:"max_tokens"`
	}{Model: model, System: req.System, Messages: req.Messages, Max: req.MaxTokens}
	if req.Schema != nil {
		payload.Schema = req.Schema.Name
		payload.Def = req.Schema.Definition
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "satmath:llm:" + hex.EncodeToString(sum[:]), nil
}

// MemoryCache is a process-local Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	val     []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RedisCache stores responses in redis.
type RedisCache struct {
	rdb *goredis.Client
}

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, val, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.rdb.Close()
}
