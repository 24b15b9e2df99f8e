package problemgen

import "github.com/piepengu/satmath/internal/guardrail"

// AIConfig controls the LLM item generator.
type AIConfig struct {
	// Validators run on every model payload. All run; any failure sends the
	// request to the template fallback.
	Validators []guardrail.Validator

	MaxTokens   int
	Temperature float64

	// MaxPriorPrompts caps how many earlier prompts are listed in the
	// request so the model avoids repeating them.
	MaxPriorPrompts int
}

// DefaultAIConfig returns the guardrail's default checks and generation
// settings tuned for one short MC item.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Validators:      guardrail.DefaultValidators(),
		MaxTokens:       1024,
		Temperature:     0.7,
		MaxPriorPrompts: 8,
	}
}
