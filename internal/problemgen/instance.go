package problemgen

import (
	"fmt"
	"math/big"

	"github.com/piepengu/satmath/internal/skills"
)

// maxResample bounds every rejection loop. After that many draws a fixed
// fallback is used so generation always terminates.
const maxResample = 64

// newInstance fills the shared problem fields from the skill catalog.
func newInstance(id skills.ID, seed int64, prompt string, steps []string, vals []*big.Rat) *instance {
	sk, err := skills.Get(id)
	if err != nil {
		panic(fmt.Sprintf("problemgen: generator for uncatalogued skill %q", id))
	}
	in := &instance{
		Problem: Problem{
			Domain: sk.Domain,
			Skill:  id,
			Seed:   seed,
			Prompt: prompt,
			Steps:  steps,
		},
		values: vals,
		shape:  sk.Shape,
		step:   one,
	}
	in.Answer = in.canonical(vals)
	return in
}

// canonical renders values in the answer form for this skill.
func (in *instance) canonical(vals []*big.Rat) string {
	if in.shape == skills.ShapeScalar {
		return in.formatScalar(vals[0])
	}
	return joinCSV(vals)
}

func (in *instance) formatScalar(v *big.Rat) string {
	if in.decimals > 0 {
		return v.FloatString(in.decimals)
	}
	return v.RatString()
}

// withDecimals switches scalar rendering to a fixed number of places.
func (in *instance) withDecimals(n int) *instance {
	in.decimals = n
	in.Answer = in.canonical(in.values)
	return in
}

// withMisconception attaches a skill-specific wrong answer.
func (in *instance) withMisconception(v *big.Rat, why string) *instance {
	in.misconception = &distractor{values: []*big.Rat{v}, why: why}
	return in
}

// moveConstant describes removing constant k from the left-hand side.
func moveConstant(k int, lhs string, rhs int) string {
	switch {
	case k > 0:
		return fmt.Sprintf("Subtract %d from both sides: %s = %d", k, lhs, rhs)
	case k < 0:
		return fmt.Sprintf("Add %d to both sides: %s = %d", -k, lhs, rhs)
	}
	return fmt.Sprintf("No constant to move: %s = %d", lhs, rhs)
}

// quotient returns n/d as a rational and whether it is an integer.
func quotient(n, d int) (*big.Rat, bool) {
	q := big.NewRat(int64(n), int64(d))
	return q, q.IsInt()
}
