// Package guardrail validates untrusted, model-produced practice items and
// tutoring elaborations before they are rendered as math markup.
//
// Every check runs; a payload is valid only if no check recorded a reason.
// Cleaned output always carries best-effort coerced fields so callers can
// salvage partial data, but only Valid is authoritative.
package guardrail

import "regexp"

// Caps for generated items.
const (
	MaxPromptLen = 3000
	NumChoices   = 4
	MaxChoiceLen = 120
	MinSteps     = 1
	MaxSteps     = 8
	MaxStepLen   = 200
)

// Caps for tutoring elaborations.
const (
	MaxElaborationText    = 600
	MaxWalkthroughSteps   = 8
	MaxWalkthroughStepLen = 220
)

// Reason codes for items.
const (
	ReasonPromptEmpty   = "prompt_empty"
	ReasonPromptTooLong = "prompt_too_long"
	ReasonUnsafeLatex   = "unsafe_latex"
	ReasonChoicesCount  = "choices_count"
	ReasonChoicesLen    = "choices_len"
	ReasonChoicesUnique = "choices_unique"
	ReasonCorrectIndex  = "correct_index"
	ReasonStepsCount    = "steps_count"
	ReasonStepsLen      = "steps_len"
	ReasonChoicesFormat = "choices_format"
)

// Reason codes for elaborations.
const (
	ReasonConceptBad       = "concept_bad"
	ReasonPlanBad          = "plan_bad"
	ReasonQuickBad         = "quick_bad"
	ReasonMistakeBad       = "mistake_bad"
	ReasonWalkthroughCount = "walkthrough_count"
	ReasonWalkthroughStep  = "walkthrough_step"
)

// Flags are cross-cutting categories kept for metrics. They may repeat
// what a reason already says.
const (
	FlagUnsafeLatex = "unsafe_latex"
	FlagOverLength  = "over_length"
)

// unsafeLatex matches typesetting commands that read or write files,
// change catcodes, pull packages, or break out of the math renderer.
var unsafeLatex = regexp.MustCompile(
	`(?i)\\(input|include|write18|openout|openin|read|write|immediate|catcode|usepackage)\b` +
		`|\\begin\{document\}|\\end\{document\}|\\label\{`)

// HasUnsafeLatex reports whether s contains a denied command.
func HasUnsafeLatex(s string) bool {
	return unsafeLatex.MatchString(s)
}

// Report collects reasons (ordered, without duplicates) and flags.
type Report struct {
	Reasons []string
	Flags   map[string]bool
}

func newReport() *Report {
	return &Report{Reasons: []string{}, Flags: map[string]bool{}}
}

// Fail records a reason once.
func (r *Report) Fail(reason string) {
	for _, have := range r.Reasons {
		if have == reason {
			return
		}
	}
	r.Reasons = append(r.Reasons, reason)
}

// Flag marks a category.
func (r *Report) Flag(name string) {
	r.Flags[name] = true
}

// Valid reports whether no reason was recorded.
func (r *Report) Valid() bool {
	return len(r.Reasons) == 0
}
