package guardrail

import (
	"reflect"
	"strings"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"prompt_latex":      "Let\\ x=2.",
		"choices":           []any{"1", "2", "3", "4"},
		"correct_index":     float64(1),
		"explanation_steps": []any{"Read the value of x.", "So x = 2."},
	}
}

func hasReason(o Outcome, reason string) bool {
	for _, r := range o.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func TestValidatePayload_Accepts(t *testing.T) {
	o := ValidatePayload("algebra", "linear_equation", validPayload())
	if !o.Valid {
		t.Fatalf("expected valid, got reasons %v", o.Reasons)
	}
	if len(o.Reasons) != 0 || len(o.Flags) != 0 {
		t.Errorf("expected no reasons or flags, got %v %v", o.Reasons, o.Flags)
	}
	if o.Item.Prompt != "Let\\ x=2." {
		t.Errorf("prompt = %q", o.Item.Prompt)
	}
	if o.Item.CorrectIndex != 1 {
		t.Errorf("correct_index = %d, want 1", o.Item.CorrectIndex)
	}
	if !reflect.DeepEqual(o.Item.Choices, []string{"1", "2", "3", "4"}) {
		t.Errorf("choices = %v", o.Item.Choices)
	}
}

func TestValidatePayload_UnsafeLatex(t *testing.T) {
	p := validPayload()
	p["prompt_latex"] = "\\input{bad}"
	o := ValidatePayload("algebra", "linear_equation", p)
	if o.Valid {
		t.Fatal("expected invalid")
	}
	if !hasReason(o, ReasonUnsafeLatex) {
		t.Errorf("reasons %v missing %q", o.Reasons, ReasonUnsafeLatex)
	}
	if !o.Flags[FlagUnsafeLatex] {
		t.Errorf("flags %v missing %q", o.Flags, FlagUnsafeLatex)
	}
}

func TestHasUnsafeLatex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"\\frac{1}{2}", false},
		{"x^2 + 3x", false},
		{"\\input{x}", true},
		{"\\INCLUDE{x}", true},
		{"\\includegraphics{x}", false},
		{"\\write18{rm}", true},
		{"\\immediate\\write", true},
		{"\\openout1", false},
		{"\\openout 1", true},
		{"\\begin{document}", true},
		{"\\end{document}", true},
		{"\\label{eq}", true},
		{"\\reading", false},
		{"\\catcode`\\^", true},
	}
	for _, tt := range tests {
		if got := HasUnsafeLatex(tt.in); got != tt.want {
			t.Errorf("HasUnsafeLatex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatePayload_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p map[string]any)
		reason string
	}{
		{"empty prompt", func(p map[string]any) { p["prompt_latex"] = "   " }, ReasonPromptEmpty},
		{"missing prompt", func(p map[string]any) { delete(p, "prompt_latex") }, ReasonPromptEmpty},
		{"long prompt", func(p map[string]any) { p["prompt_latex"] = strings.Repeat("x", MaxPromptLen+1) }, ReasonPromptTooLong},
		{"three choices", func(p map[string]any) { p["choices"] = []any{"1", "2", "3"} }, ReasonChoicesCount},
		{"choices not a list", func(p map[string]any) { p["choices"] = "1,2,3,4" }, ReasonChoicesCount},
		{"empty choice", func(p map[string]any) { p["choices"] = []any{"1", "", "3", "4"} }, ReasonChoicesLen},
		{"long choice", func(p map[string]any) { p["choices"] = []any{"1", strings.Repeat("9", MaxChoiceLen+1), "3", "4"} }, ReasonChoicesLen},
		{"duplicate choice", func(p map[string]any) { p["choices"] = []any{"1", "2", "2", "4"} }, ReasonChoicesUnique},
		{"index too large", func(p map[string]any) { p["correct_index"] = float64(4) }, ReasonCorrectIndex},
		{"negative index", func(p map[string]any) { p["correct_index"] = float64(-1) }, ReasonCorrectIndex},
		{"fractional index", func(p map[string]any) { p["correct_index"] = 1.5 }, ReasonCorrectIndex},
		{"bool index", func(p map[string]any) { p["correct_index"] = true }, ReasonCorrectIndex},
		{"text index", func(p map[string]any) { p["correct_index"] = "one" }, ReasonCorrectIndex},
		{"missing index", func(p map[string]any) { delete(p, "correct_index") }, ReasonCorrectIndex},
		{"no steps", func(p map[string]any) { p["explanation_steps"] = []any{} }, ReasonStepsCount},
		{"too many steps", func(p map[string]any) {
			steps := make([]any, MaxSteps+1)
			for i := range steps {
				steps[i] = "step"
			}
			p["explanation_steps"] = steps
		}, ReasonStepsCount},
		{"long step", func(p map[string]any) { p["explanation_steps"] = []any{strings.Repeat("s", MaxStepLen+1)} }, ReasonStepsLen},
		{"non-text step", func(p map[string]any) { p["explanation_steps"] = []any{"ok", float64(3)} }, ReasonStepsLen},
		{"unsafe step", func(p map[string]any) { p["explanation_steps"] = []any{"\\write18{x}"} }, ReasonUnsafeLatex},
		{"unsafe hint", func(p map[string]any) { p["hints"] = []any{"\\input{x}"} }, ReasonUnsafeLatex},
		{"non-numeric choice", func(p map[string]any) { p["choices"] = []any{"1", "2", "3", "x +"} }, ReasonChoicesFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			o := ValidatePayload("algebra", "linear_equation", p)
			if o.Valid {
				t.Fatal("expected invalid")
			}
			if !hasReason(o, tt.reason) {
				t.Errorf("reasons %v missing %q", o.Reasons, tt.reason)
			}
		})
	}
}

func TestValidatePayload_OverLengthFlag(t *testing.T) {
	p := validPayload()
	p["prompt_latex"] = strings.Repeat("y", MaxPromptLen+1)
	o := ValidatePayload("algebra", "linear_equation", p)
	if !o.Flags[FlagOverLength] {
		t.Errorf("flags %v missing %q", o.Flags, FlagOverLength)
	}
}

func TestValidatePayload_ReportsEveryFailure(t *testing.T) {
	o := ValidatePayload("algebra", "linear_equation", map[string]any{})
	want := []string{ReasonPromptEmpty, ReasonChoicesCount, ReasonCorrectIndex, ReasonStepsCount}
	if !reflect.DeepEqual(o.Reasons, want) {
		t.Errorf("reasons = %v, want %v", o.Reasons, want)
	}
	if o.Item.CorrectIndex != -1 {
		t.Errorf("correct_index = %d, want -1", o.Item.CorrectIndex)
	}
}

func TestValidatePayload_NilPayload(t *testing.T) {
	o := ValidatePayload("algebra", "linear_equation", nil)
	if o.Valid {
		t.Fatal("expected invalid")
	}
	if o.Item.Choices == nil || o.Item.Steps == nil {
		t.Error("cleaned slices should be empty, not nil")
	}
}

func TestValidatePayload_ReasonsDeduplicated(t *testing.T) {
	p := validPayload()
	p["choices"] = []any{"", "", "", ""}
	o := ValidatePayload("algebra", "linear_equation", p)
	count := 0
	for _, r := range o.Reasons {
		if r == ReasonChoicesLen {
			count++
		}
	}
	if count != 1 {
		t.Errorf("choices_len reported %d times, want 1 (%v)", count, o.Reasons)
	}
}

func TestValidatePayload_Coercion(t *testing.T) {
	p := validPayload()
	p["choices"] = []any{float64(1), 2.5, "-3", " 4 "}
	p["correct_index"] = "2"
	o := ValidatePayload("algebra", "linear_equation", p)
	if !o.Valid {
		t.Fatalf("expected valid, got %v", o.Reasons)
	}
	want := []string{"1", "2.5", "-3", "4"}
	if !reflect.DeepEqual(o.Item.Choices, want) {
		t.Errorf("choices = %v, want %v", o.Item.Choices, want)
	}
	if o.Item.CorrectIndex != 2 {
		t.Errorf("correct_index = %d, want 2", o.Item.CorrectIndex)
	}
}

func TestValidatePayload_ChoiceFormat(t *testing.T) {
	tests := []struct {
		skill   string
		choices []any
		valid   bool
	}{
		{"linear_system_2x2", []any{"(1, 2)", "(2,3)", "(-3, 4)", "(4, 1/2)"}, true},
		{"linear_system_2x2", []any{"1", "2", "3", "4"}, false},
		{"linear_system_2x2", []any{"(1, 2, 3)", "(2,3)", "(3, 4)", "(4, 5)"}, false},
		{"linear_system_2x2", []any{"1, 2", "(2,3)", "(3, 4)", "(4, 5)"}, false},
		{"linear_system_2x2_mc", []any{"(1, 2)", "(2,3)", "(3, 4)", "(4, 5)"}, true},
		{"linear_system_3x3", []any{"(1,2,3)", "(2,3,4)", "(3,4,5)", "(4,5,6)"}, true},
		{"linear_system_3x3", []any{"(1,2)", "(2,3,4)", "(3,4,5)", "(4,5,6)"}, false},
		{"proportion", []any{"12", "3/4", "-2.5", "2^3"}, true},
		{"proportion", []any{"12", "(1, 2)", "3", "4"}, false},
		{"unknown_skill", []any{"apple", "(1, 2)", "three", "4"}, true},
	}
	for _, tt := range tests {
		p := validPayload()
		p["choices"] = tt.choices
		o := ValidatePayload("algebra", tt.skill, p)
		if o.Valid != tt.valid {
			t.Errorf("ValidatePayload(%s, %v).Valid = %v, want %v (%v)", tt.skill, tt.choices, o.Valid, tt.valid, o.Reasons)
		}
		if !tt.valid && !hasReason(o, ReasonChoicesFormat) {
			t.Errorf("ValidatePayload(%s, %v) reasons %v missing %q", tt.skill, tt.choices, o.Reasons, ReasonChoicesFormat)
		}
	}
}

func TestDefaultValidators_Names(t *testing.T) {
	names := []string{"prompt", "safety", "choices", "correct_index", "steps", "choices_format"}
	vs := DefaultValidators()
	if len(vs) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(vs))
	}
	for i, v := range vs {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestCheck_CustomChain(t *testing.T) {
	p := validPayload()
	p["choices"] = []any{"1"}
	o := Check("algebra", "linear_equation", p, []Validator{&PromptValidator{}})
	if !o.Valid {
		t.Errorf("prompt-only chain should accept, got %v", o.Reasons)
	}
}

func TestSanitizeDiagram(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			"right triangle",
			map[string]any{"type": "right_triangle", "a": float64(3), "b": float64(4), "c": float64(5), "extra": "x"},
			map[string]any{"type": "right_triangle", "a": 3, "b": 4, "c": 5},
		},
		{
			"right triangle with fractional side",
			map[string]any{"type": "right_triangle", "a": 3.5, "b": float64(4), "c": float64(5)},
			nil,
		},
		{
			"right triangle with negative side",
			map[string]any{"type": "right_triangle", "a": float64(-3), "b": float64(4), "c": float64(5)},
			nil,
		},
		{
			"rectangle",
			map[string]any{"type": "rectangle", "w": "7", "h": float64(2)},
			map[string]any{"type": "rectangle", "w": 7, "h": 2},
		},
		{
			"triangle nested angles",
			map[string]any{"type": "triangle", "angles": map[string]any{"A": float64(50), "B": float64(60), "C": float64(70)}},
			map[string]any{"type": "triangle", "angles": map[string]int{"A": 50, "B": 60, "C": 70}},
		},
		{
			"triangle flat angles",
			map[string]any{"type": "triangle", "A": float64(90), "B": float64(45), "C": float64(45)},
			map[string]any{"type": "triangle", "angles": map[string]int{"A": 90, "B": 45, "C": 45}},
		},
		{
			"triangle bad sum",
			map[string]any{"type": "triangle", "angles": map[string]any{"A": float64(50), "B": float64(60), "C": float64(80)}},
			nil,
		},
		{
			"unknown type",
			map[string]any{"type": "circle", "r": float64(2)},
			nil,
		},
		{
			"labels filtered",
			map[string]any{"type": "rectangle", "w": float64(3), "h": float64(4), "labels": map[string]any{
				"w": "3 cm", "h": float64(4), "bad key": "x", "x": "\\input{y}", "y": "<b>",
			}},
			map[string]any{"type": "rectangle", "w": 3, "h": 4, "labels": map[string]string{"w": "3 cm"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDiagram(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("SanitizeDiagram = %v, want nil", got)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SanitizeDiagram = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidatePayload_DropsBadDiagram(t *testing.T) {
	p := validPayload()
	p["diagram"] = map[string]any{"type": "right_triangle", "a": "x"}
	o := ValidatePayload("geometry", "pythagorean_hypotenuse", p)
	if o.Item.Diagram != nil {
		t.Errorf("expected diagram dropped, got %v", o.Item.Diagram)
	}
	if !o.Valid {
		t.Errorf("a bad diagram alone should not invalidate, got %v", o.Reasons)
	}
}
