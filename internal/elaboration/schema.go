package elaboration

import (
	"github.com/piepengu/satmath/internal/guardrail"
	"github.com/piepengu/satmath/internal/llm"
)

func text(desc string, max int) map[string]any {
	return map[string]any{"type": "string", "description": desc, "maxLength": max}
}

// Schema is the structured-output contract for a tutoring elaboration.
var Schema = &llm.Schema{
	Name:        "sat-elaboration",
	Description: "A short tutoring explanation of one SAT math item",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"concept":        text("The idea the item tests, in one or two sentences", guardrail.MaxElaborationText),
			"plan":           text("How to attack this kind of item", guardrail.MaxElaborationText),
			"quick_check":    text("A fast way to verify the answer", guardrail.MaxElaborationText),
			"common_mistake": text("The most likely wrong turn and why it fails", guardrail.MaxElaborationText),
			"walkthrough": map[string]any{
				"type":        "array",
				"items":       text("One solution step", guardrail.MaxWalkthroughStepLen),
				"maxItems":    guardrail.MaxWalkthroughSteps,
				"description": "The solution of this exact item, one step per entry",
			},
		},
		"required":             []any{"concept", "plan", "walkthrough", "quick_check", "common_mistake"},
		"additionalProperties": false,
	},
}
