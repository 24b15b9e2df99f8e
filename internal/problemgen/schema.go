package problemgen

import (
	"github.com/piepengu/satmath/internal/guardrail"
	"github.com/piepengu/satmath/internal/llm"
)

// ItemSchema is the structured-output contract for one AI-written MC item.
// The optional diagram keeps the schema out of OpenAI strict mode.
var ItemSchema = &llm.Schema{
	Name:        "sat-item",
	Description: "One SAT-style multiple-choice math item with a worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt_latex": map[string]any{
				"type":        "string",
				"description": "Question text; math in KaTeX-ready LaTeX between $...$",
				"maxLength":   guardrail.MaxPromptLen,
			},
			"choices": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    guardrail.NumChoices,
				"maxItems":    guardrail.NumChoices,
				"description": "Exactly four distinct answer options, plain values without labels",
			},
			"correct_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     guardrail.NumChoices - 1,
				"description": "Zero-based index of the correct option",
			},
			"explanation_steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    guardrail.MinSteps,
				"maxItems":    guardrail.MaxSteps,
				"description": "Short worked-solution steps",
			},
			"hints": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    2,
				"description": "Up to two nudges that do not reveal the answer",
			},
			"diagram": map[string]any{
				"type":        "object",
				"description": "Optional figure for geometry items; omit otherwise",
				"properties": map[string]any{
					"type": map[string]any{"type": "string", "enum": []any{"right_triangle", "rectangle", "triangle"}},
					"a":    map[string]any{"type": "integer"},
					"b":    map[string]any{"type": "integer"},
					"c":    map[string]any{"type": "integer"},
					"w":    map[string]any{"type": "integer"},
					"h":    map[string]any{"type": "integer"},
					"angles": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"A": map[string]any{"type": "integer"},
							"B": map[string]any{"type": "integer"},
							"C": map[string]any{"type": "integer"},
						},
					},
				},
				"required": []any{"type"},
			},
		},
		"required": []any{"prompt_latex", "choices", "correct_index", "explanation_steps", "hints"},
	},
}
