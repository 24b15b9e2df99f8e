package llm

import (
	"context"
	"fmt"

	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → retry → logging → cache → base.
// The redis cache, when configured, must be reachable.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	cached, err := wrapCache(ctx, base, cfg.Cache)
	if err != nil {
		return nil, err
	}

	logged := WithLogging(cached, cfg.Provider, eventRepo, log)
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

func wrapCache(ctx context.Context, p Provider, cfg CacheConfig) (Provider, error) {
	switch cfg.Backend {
	case "":
		return p, nil
	case "memory":
		return WithCache(p, NewMemoryCache(), cfg.TTL), nil
	case "redis":
		rc, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("llm cache: %w", err)
		}
		return WithCache(p, rc, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown LLM cache backend: %q", cfg.Backend)
	}
}
