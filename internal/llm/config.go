package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is "anthropic", "openai", "gemini", "openrouter" or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
	Cache      CacheConfig

	// Timeout bounds one logical request, retries included.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional gateway in front of the Messages API.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional OpenAI-compatible endpoint.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// CacheConfig selects the response cache backend. Only temperature-zero
// requests are cached.
type CacheConfig struct {
	// Backend is "memory", "redis", or empty to disable caching.
	Backend   string
	RedisAddr string
	TTL       time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults every provider starts from: cheap
// fast models, three attempts, a day of cache TTL and a 30s budget.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Cache:   CacheConfig{TTL: 24 * time.Hour},
		Timeout: 30 * time.Second,
	}
}

// providerFields points at one provider's settings inside a Config. The
// slice order is the discovery priority.
type providerFields struct {
	name    string
	key     *string
	model   *string
	baseURL *string // nil when the provider has no endpoint override
}

func (c *Config) providers() []providerFields {
	return []providerFields{
		{"gemini", &c.Gemini.APIKey, &c.Gemini.Model, nil},
		{"openai", &c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL},
		{"anthropic", &c.Anthropic.APIKey, &c.Anthropic.Model, &c.Anthropic.BaseURL},
		{"openrouter", &c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL},
	}
}

// envName is SATMATH_<PROVIDER>_<SUFFIX>.
func envName(provider, suffix string) string {
	return "SATMATH_" + strings.ToUpper(provider) + "_" + suffix
}

// ConfigFromEnv builds a Config from SATMATH_* variables over the defaults:
// SATMATH_LLM_PROVIDER, SATMATH_<PROVIDER>_API_KEY, _MODEL and _BASE_URL,
// SATMATH_LLM_CACHE, SATMATH_REDIS_ADDR and SATMATH_LLM_TIMEOUT.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("SATMATH_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for _, pf := range cfg.providers() {
		setFromEnv(pf.key, envName(pf.name, "API_KEY"))
		setFromEnv(pf.model, envName(pf.name, "MODEL"))
		if pf.baseURL != nil {
			setFromEnv(pf.baseURL, envName(pf.name, "BASE_URL"))
		}
	}

	setFromEnv(&cfg.Cache.Backend, "SATMATH_LLM_CACHE")
	if setFromEnv(&cfg.Cache.RedisAddr, "SATMATH_REDIS_ADDR") && cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "redis"
	}
	if d, err := time.ParseDuration(os.Getenv("SATMATH_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

func setFromEnv(dst *string, name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	*dst = v
	return true
}

// DiscoverConfig picks the first provider whose standard key variable
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY)
// is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, pf := range cfg.providers() {
		if setFromEnv(pf.key, strings.ToUpper(pf.name)+"_API_KEY") {
			cfg.Provider = pf.name
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks the selected provider has a key and the cache backend
// is usable.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
	default:
		var found bool
		for _, pf := range c.providers() {
			if pf.name != c.Provider {
				continue
			}
			found = true
			if *pf.key == "" {
				return fmt.Errorf("%s is required for the %s provider", envName(pf.name, "API_KEY"), pf.name)
			}
		}
		if !found {
			return fmt.Errorf("unknown LLM provider: %q", c.Provider)
		}
	}

	switch c.Cache.Backend {
	case "", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("SATMATH_REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown LLM cache backend: %q", c.Cache.Backend)
	}
	return nil
}

// ResolveConfig prefers an explicit SATMATH_LLM_PROVIDER and otherwise
// discovers a provider from the standard key variables. Cache and timeout
// settings from the environment apply either way. It reports false when no
// provider is configured.
func ResolveConfig() (Config, bool) {
	env := ConfigFromEnv()
	if os.Getenv("SATMATH_LLM_PROVIDER") != "" {
		return env, true
	}
	cfg, ok := DiscoverConfig()
	if !ok {
		return Config{}, false
	}
	cfg.Cache = env.Cache
	cfg.Timeout = env.Timeout
	return cfg, true
}
