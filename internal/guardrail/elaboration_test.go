package guardrail

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateElaboration_Accepts(t *testing.T) {
	o := ValidateElaboration(map[string]any{
		"concept":        "Undo operations in reverse order.",
		"plan":           "Subtract, then divide.",
		"walkthrough":    []any{"3x + 2 = 11", "3x = 9", "x = 3"},
		"quick_check":    "3(3) + 2 = 11.",
		"common_mistake": "Dividing before subtracting.",
	})
	if !o.Valid {
		t.Fatalf("expected valid, got %v", o.Reasons)
	}
	if len(o.Elaboration.Walkthrough) != 3 {
		t.Errorf("walkthrough = %v", o.Elaboration.Walkthrough)
	}
}

func TestValidateElaboration_AllOptional(t *testing.T) {
	o := ValidateElaboration(map[string]any{})
	if !o.Valid {
		t.Fatalf("expected empty elaboration valid, got %v", o.Reasons)
	}
	want := Elaboration{Walkthrough: []string{}}
	if !reflect.DeepEqual(o.Elaboration, want) {
		t.Errorf("elaboration = %+v, want %+v", o.Elaboration, want)
	}
}

func TestValidateElaboration_Reasons(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		reason  string
		flag    string
	}{
		{"long concept", map[string]any{"concept": strings.Repeat("c", MaxElaborationText+1)}, ReasonConceptBad, FlagOverLength},
		{"unsafe plan", map[string]any{"plan": "\\input{x}"}, ReasonPlanBad, FlagUnsafeLatex},
		{"numeric quick check", map[string]any{"quick_check": float64(3)}, ReasonQuickBad, ""},
		{"unsafe mistake", map[string]any{"common_mistake": "\\write18{x}"}, ReasonMistakeBad, FlagUnsafeLatex},
		{"walkthrough not list", map[string]any{"walkthrough": "step"}, ReasonWalkthroughCount, ""},
		{"walkthrough too long", map[string]any{"walkthrough": []any{"1", "2", "3", "4", "5", "6", "7", "8", "9"}}, ReasonWalkthroughCount, ""},
		{"walkthrough long step", map[string]any{"walkthrough": []any{strings.Repeat("w", MaxWalkthroughStepLen+1)}}, ReasonWalkthroughStep, FlagOverLength},
		{"walkthrough unsafe step", map[string]any{"walkthrough": []any{"ok", "\\label{x}"}}, ReasonWalkthroughStep, FlagUnsafeLatex},
		{"walkthrough non-text step", map[string]any{"walkthrough": []any{float64(1)}}, ReasonWalkthroughStep, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := ValidateElaboration(tt.payload)
			if o.Valid {
				t.Fatal("expected invalid")
			}
			found := false
			for _, r := range o.Reasons {
				if r == tt.reason {
					found = true
				}
			}
			if !found {
				t.Errorf("reasons %v missing %q", o.Reasons, tt.reason)
			}
			if tt.flag != "" && !o.Flags[tt.flag] {
				t.Errorf("flags %v missing %q", o.Flags, tt.flag)
			}
		})
	}
}

func TestValidateElaboration_EmptyTextIsAbsent(t *testing.T) {
	o := ValidateElaboration(map[string]any{"concept": "  ", "plan": nil})
	if !o.Valid {
		t.Errorf("blank fields should be treated as absent, got %v", o.Reasons)
	}
	if o.Elaboration.Concept != "" {
		t.Errorf("concept = %q, want empty", o.Elaboration.Concept)
	}
}

func TestValidateElaboration_LongAndUnsafeFlagsBoth(t *testing.T) {
	o := ValidateElaboration(map[string]any{
		"concept":     "\\input{/etc/passwd} " + strings.Repeat("a", MaxElaborationText),
		"walkthrough": []any{"\\write18{x}" + strings.Repeat("b", MaxWalkthroughStepLen)},
	})
	if o.Valid {
		t.Fatal("expected invalid")
	}
	want := []string{ReasonConceptBad, ReasonWalkthroughStep}
	if !reflect.DeepEqual(o.Reasons, want) {
		t.Errorf("reasons = %v, want %v", o.Reasons, want)
	}
	for _, f := range []string{FlagOverLength, FlagUnsafeLatex} {
		if !o.Flags[f] {
			t.Errorf("flags %v missing %q", o.Flags, f)
		}
	}
}
