package problemgen

import (
	"math/big"
	"slices"
	"strings"

	"github.com/piepengu/satmath/internal/mathexpr"
	"github.com/piepengu/satmath/internal/skills"
)

// whyNoChoice is reported when an MC response selects nothing valid.
const whyNoChoice = "No choice selected"

// gradeText compares a typed answer with the canonical value. Anything
// that fails to parse is simply incorrect.
func gradeText(in *instance, text string) Result {
	return Result{
		Correct: in.matches(text),
		Answer:  in.Answer,
		Steps:   in.Steps,
	}
}

func (in *instance) matches(text string) bool {
	text = cleanAnswer(text)
	switch {
	case in.shape == skills.ShapeScalar:
		v, err := mathexpr.ParseRat(text)
		return err == nil && v.Cmp(in.values[0]) == 0
	case in.unordered:
		got, err := mathexpr.ParseTuple(text, len(in.values))
		return err == nil && sameMultiset(got, in.values)
	default:
		got, err := mathexpr.ParseTuple(text, len(in.values))
		if err != nil {
			return false
		}
		for i := range got {
			if got[i].Cmp(in.values[i]) != 0 {
				return false
			}
		}
		return true
	}
}

// gradeChoice compares a selected index with the correct one. Out of range
// selections, including -1, are incorrect.
func gradeChoice(item *MCItem, choice int) Result {
	res := Result{Answer: item.Answer, Steps: item.Steps}
	if choice < 0 || choice >= len(item.Choices) {
		res.WhySelected = whyNoChoice
		return res
	}
	res.Correct = choice == item.CorrectIndex
	res.WhySelected = item.WhyIncorrect[choice]
	return res
}

// cleanAnswer drops currency and degree marks learners often type.
func cleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `\$`)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "°")
	s = strings.TrimSuffix(s, `^\circ`)
	return strings.TrimSpace(s)
}

func sameMultiset(a, b []*big.Rat) bool {
	if len(a) != len(b) {
		return false
	}
	cmp := func(x, y *big.Rat) int { return x.Cmp(y) }
	a, b = cloneRats(a), cloneRats(b)
	slices.SortFunc(a, cmp)
	slices.SortFunc(b, cmp)
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}
