package guardrail

import "strings"

// Elaboration is the cleaned form of a tutoring elaboration. Missing
// fields stay empty.
type Elaboration struct {
	Concept       string   `json:"concept,omitempty"`
	Plan          string   `json:"plan,omitempty"`
	Walkthrough   []string `json:"walkthrough"`
	QuickCheck    string   `json:"quick_check,omitempty"`
	CommonMistake string   `json:"common_mistake,omitempty"`
}

// ElaborationOutcome is the verdict on one elaboration payload.
type ElaborationOutcome struct {
	Valid       bool            `json:"valid"`
	Elaboration Elaboration     `json:"elaboration"`
	Reasons     []string        `json:"reasons"`
	Flags       map[string]bool `json:"flags"`
}

// ValidateElaboration checks an elaboration payload. Every text field is
// optional, but a present one must be non-empty text within the cap and
// free of denied markup.
func ValidateElaboration(payload map[string]any) ElaborationOutcome {
	if payload == nil {
		payload = map[string]any{}
	}
	r := newReport()
	e := Elaboration{Walkthrough: []string{}}

	e.Concept = optionalText(payload, "concept", ReasonConceptBad, r)
	e.Plan = optionalText(payload, "plan", ReasonPlanBad, r)
	e.QuickCheck = optionalText(payload, "quick_check", ReasonQuickBad, r)
	e.CommonMistake = optionalText(payload, "common_mistake", ReasonMistakeBad, r)

	if v, present := payload["walkthrough"]; present && v != nil {
		list, ok := toList(v)
		if !ok || len(list) > MaxWalkthroughSteps {
			r.Fail(ReasonWalkthroughCount)
		}
		for _, item := range list {
			s, isText := item.(string)
			s = strings.TrimSpace(s)
			switch {
			case !isText:
				r.Fail(ReasonWalkthroughStep)
				continue
			case s == "":
				continue
			case runeLen(s) > MaxWalkthroughStepLen:
				r.Fail(ReasonWalkthroughStep)
				r.Flag(FlagOverLength)
			}
			if HasUnsafeLatex(s) {
				r.Fail(ReasonWalkthroughStep)
				r.Flag(FlagUnsafeLatex)
			}
			e.Walkthrough = append(e.Walkthrough, s)
		}
	}

	return ElaborationOutcome{Valid: r.Valid(), Elaboration: e, Reasons: r.Reasons, Flags: r.Flags}
}

func optionalText(payload map[string]any, key, reason string, r *Report) string {
	v, present := payload[key]
	if !present || v == nil {
		return ""
	}
	s, isText := v.(string)
	s = strings.TrimSpace(s)
	switch {
	case !isText:
		r.Fail(reason)
		return ""
	case s == "":
		return ""
	case runeLen(s) > MaxElaborationText:
		r.Fail(reason)
		r.Flag(FlagOverLength)
	}
	if HasUnsafeLatex(s) {
		r.Fail(reason)
		r.Flag(FlagUnsafeLatex)
	}
	return s
}
