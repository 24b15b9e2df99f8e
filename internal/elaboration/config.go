package elaboration

// Config holds elaboration generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns settings for a short deterministic explanation,
// which keeps repeated requests for the same item cacheable.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   900,
		Temperature: 0,
	}
}
