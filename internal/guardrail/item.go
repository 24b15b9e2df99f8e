package guardrail

import (
	"strings"

	"github.com/piepengu/satmath/internal/mathexpr"
	"github.com/piepengu/satmath/internal/skills"
)

// Item is the cleaned form of a model-produced multiple-choice item.
type Item struct {
	Prompt       string         `json:"prompt_latex"`
	Choices      []string       `json:"choices"`
	CorrectIndex int            `json:"correct_index"`
	Steps        []string       `json:"explanation_steps"`
	Hints        []string       `json:"hints"`
	Diagram      map[string]any `json:"diagram,omitempty"`
}

// Outcome is the verdict on one item payload.
type Outcome struct {
	Valid   bool            `json:"valid"`
	Item    Item            `json:"item"`
	Reasons []string        `json:"reasons"`
	Flags   map[string]bool `json:"flags"`
}

// Candidate is a coerced payload under inspection, along with what the
// coercion could not represent.
type Candidate struct {
	Domain string
	Skill  string
	Item   Item

	choicesList bool
	indexOK     bool
	stepsList   bool
	stepsText   bool
}

// Validator inspects one aspect of a candidate and records problems on
// the report. Validators never stop the chain.
type Validator interface {
	Name() string
	Validate(c *Candidate, r *Report)
}

// DefaultValidators returns the item checks in reporting order.
func DefaultValidators() []Validator {
	return []Validator{
		&PromptValidator{},
		&SafetyValidator{},
		&ChoicesValidator{},
		&CorrectIndexValidator{},
		&StepsValidator{},
		&FormatValidator{},
	}
}

// ValidatePayload runs the default checks against a decoded JSON object.
func ValidatePayload(domain, skill string, payload map[string]any) Outcome {
	return Check(domain, skill, payload, DefaultValidators())
}

// Check coerces payload and runs every validator against it.
func Check(domain, skill string, payload map[string]any, validators []Validator) Outcome {
	c := coerceItem(domain, skill, payload)
	r := newReport()
	for _, v := range validators {
		v.Validate(c, r)
	}
	return Outcome{Valid: r.Valid(), Item: c.Item, Reasons: r.Reasons, Flags: r.Flags}
}

func coerceItem(domain, skill string, payload map[string]any) *Candidate {
	if payload == nil {
		payload = map[string]any{}
	}
	c := &Candidate{
		Domain: domain,
		Skill:  skill,
		Item: Item{
			Prompt:  strings.TrimSpace(toText(payload["prompt_latex"])),
			Choices: []string{},
			Steps:   []string{},
			Hints:   []string{},
		},
		stepsText: true,
	}

	if list, ok := toList(payload["choices"]); ok {
		c.choicesList = true
		for _, v := range list {
			c.Item.Choices = append(c.Item.Choices, strings.TrimSpace(toText(v)))
		}
	}

	if n, ok := toInt(payload["correct_index"]); ok {
		c.Item.CorrectIndex = n
		c.indexOK = true
	} else {
		c.Item.CorrectIndex = -1
	}

	if list, ok := toList(payload["explanation_steps"]); ok {
		c.stepsList = true
		for _, v := range list {
			s, isText := v.(string)
			if !isText {
				c.stepsText = false
				continue
			}
			c.Item.Steps = append(c.Item.Steps, strings.TrimSpace(s))
		}
	}

	if list, ok := toList(payload["hints"]); ok {
		for _, v := range list {
			if s, isText := v.(string); isText && strings.TrimSpace(s) != "" {
				c.Item.Hints = append(c.Item.Hints, strings.TrimSpace(s))
			}
		}
	}

	if raw, ok := payload["diagram"].(map[string]any); ok {
		c.Item.Diagram = SanitizeDiagram(raw)
	}
	return c
}

// PromptValidator requires a non-empty prompt within the length cap.
type PromptValidator struct{}

func (v *PromptValidator) Name() string { return "prompt" }

func (v *PromptValidator) Validate(c *Candidate, r *Report) {
	switch {
	case c.Item.Prompt == "":
		r.Fail(ReasonPromptEmpty)
	case runeLen(c.Item.Prompt) > MaxPromptLen:
		r.Fail(ReasonPromptTooLong)
		r.Flag(FlagOverLength)
	}
}

// SafetyValidator rejects denied markup in every rendered text field.
type SafetyValidator struct{}

func (v *SafetyValidator) Name() string { return "safety" }

func (v *SafetyValidator) Validate(c *Candidate, r *Report) {
	fields := []string{c.Item.Prompt}
	fields = append(fields, c.Item.Choices...)
	fields = append(fields, c.Item.Steps...)
	fields = append(fields, c.Item.Hints...)
	for _, s := range fields {
		if HasUnsafeLatex(s) {
			r.Fail(ReasonUnsafeLatex)
			r.Flag(FlagUnsafeLatex)
			return
		}
	}
}

// ChoicesValidator requires exactly four short, distinct choices.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(c *Candidate, r *Report) {
	if !c.choicesList || len(c.Item.Choices) != NumChoices {
		r.Fail(ReasonChoicesCount)
		return
	}
	seen := make(map[string]bool, NumChoices)
	for _, ch := range c.Item.Choices {
		if ch == "" {
			r.Fail(ReasonChoicesLen)
		} else if runeLen(ch) > MaxChoiceLen {
			r.Fail(ReasonChoicesLen)
			r.Flag(FlagOverLength)
		}
		if seen[ch] {
			r.Fail(ReasonChoicesUnique)
		}
		seen[ch] = true
	}
}

// CorrectIndexValidator requires an integer index into the choices.
type CorrectIndexValidator struct{}

func (v *CorrectIndexValidator) Name() string { return "correct_index" }

func (v *CorrectIndexValidator) Validate(c *Candidate, r *Report) {
	if !c.indexOK || c.Item.CorrectIndex < 0 || c.Item.CorrectIndex >= NumChoices {
		r.Fail(ReasonCorrectIndex)
	}
}

// StepsValidator requires one to eight short textual steps.
type StepsValidator struct{}

func (v *StepsValidator) Name() string { return "steps" }

func (v *StepsValidator) Validate(c *Candidate, r *Report) {
	n := len(c.Item.Steps)
	if !c.stepsText {
		r.Fail(ReasonStepsLen)
	}
	if !c.stepsList || n < MinSteps || n > MaxSteps {
		r.Fail(ReasonStepsCount)
	}
	for _, s := range c.Item.Steps {
		if s == "" {
			r.Fail(ReasonStepsLen)
		} else if runeLen(s) > MaxStepLen {
			r.Fail(ReasonStepsLen)
			r.Flag(FlagOverLength)
		}
	}
}

// FormatValidator checks that every choice has the answer shape of the
// skill. Unknown skills are not checked.
type FormatValidator struct{}

func (v *FormatValidator) Name() string { return "choices_format" }

func (v *FormatValidator) Validate(c *Candidate, r *Report) {
	shape, ok := skills.ShapeOf(skills.ID(c.Skill))
	if !ok || !c.choicesList {
		return
	}
	for _, ch := range c.Item.Choices {
		if !fitsShape(ch, shape) {
			r.Fail(ReasonChoicesFormat)
			return
		}
	}
}

func fitsShape(choice string, shape skills.Shape) bool {
	s := strings.TrimSpace(choice)
	if shape == skills.ShapeScalar {
		_, err := mathexpr.Parse(s)
		return err == nil
	}
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return false
	}
	parts := mathexpr.SplitTuple(s)
	if len(parts) != shape.Arity() || strings.Count(s, ",") != shape.Arity()-1 {
		return false
	}
	for _, p := range parts {
		if _, err := mathexpr.Parse(p); err != nil {
			return false
		}
	}
	return true
}
