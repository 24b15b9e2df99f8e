package problemgen

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/piepengu/satmath/internal/skills"
)

// Rationales attached to each distractor strategy. A distractor keeps the
// text of the strategy that produced it, even after deduplication.
const (
	whyCorrect    = "Correct: this value checks out when substituted back."
	whyOffBySmall = "Arithmetic slip (off by one or two) during an add/subtract step."
	whySignFlip   = "Sign error when moving terms across the equals sign."
	whyOffset     = "Stopped early or misapplied the division step."
	whySlip       = "Arithmetic slip during the computation."
	whyFirst      = "Arithmetic slip when solving for x."
	whySecond     = "Arithmetic slip when back-substituting for y."
	whySwap       = "Swapped the values of x and y."
	whyRootSlip   = "Factored incorrectly, so one root is off."
	whyRootSign   = "Sign error: read the roots straight off the constants in the factors."
)

// maxFallbackDistance bounds the search for a replacement distractor.
const maxFallbackDistance = 64

// distractor is a wrong answer with the error it represents.
type distractor struct {
	values  []*big.Rat
	why     string
	correct bool
}

// buildMC turns a free-response instance into a four-choice item. Draws
// come from a second stream so the base problem is identical to the SPR
// variant with the same seed.
func buildMC(in *instance) *MCItem {
	s := newStream(in.Seed + mcSeedOffset)

	var cands []distractor
	if in.shape == skills.ShapeScalar {
		cands = in.scalarCandidates(s)
	} else {
		cands = in.tupleCandidates()
	}

	opts := []distractor{{values: in.values, why: whyCorrect, correct: true}}
	seen := map[string]bool{in.key(in.values): true}
	for _, c := range cands {
		if !in.acceptable(c.values) || seen[in.key(c.values)] {
			c = in.fallback(seen)
		}
		seen[in.key(c.values)] = true
		opts = append(opts, c)
	}
	s.shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	item := &MCItem{Problem: in.Problem}
	item.Format = FormatMC
	item.Skill = in.Skill + skills.MCSuffix
	item.Choices = make([]string, len(opts))
	item.WhyIncorrect = make([]string, len(opts))
	for i, o := range opts {
		item.Choices[i] = in.choiceText(o.values)
		item.WhyIncorrect[i] = o.why
		if o.correct {
			item.CorrectIndex = i
		}
	}
	return item
}

// scalarCandidates proposes off-by-small, sign-flip (or the skill's own
// misconception) and another-offset distractors. Both offsets are always
// drawn so the stream is consumed in a fixed order.
func (in *instance) scalarCandidates(s *stream) []distractor {
	small := pick(s, []int{-2, -1, 1, 2})
	far := pick(s, []int{3, -3})

	v := in.values[0]
	second := distractor{values: []*big.Rat{new(big.Rat).Neg(v)}, why: whySignFlip}
	switch {
	case in.misconception != nil:
		second = *in.misconception
	case in.positive:
		second = distractor{values: []*big.Rat{in.shift(v, 4)}, why: whySlip}
	}
	return []distractor{
		{values: []*big.Rat{in.shift(v, small)}, why: whyOffBySmall},
		second,
		{values: []*big.Rat{in.shift(v, far)}, why: whyOffset},
	}
}

// tupleCandidates bumps one component, bumps another, then swaps (ordered
// systems) or negates (root pairs).
func (in *instance) tupleCandidates() []distractor {
	first := cloneRats(in.values)
	first[0].Add(first[0], one)
	second := cloneRats(in.values)
	second[1].Sub(second[1], one)

	third := cloneRats(in.values)
	if in.unordered {
		for _, v := range third {
			v.Neg(v)
		}
		return []distractor{
			{values: first, why: whyRootSlip},
			{values: second, why: whyRootSlip},
			{values: third, why: whyRootSign},
		}
	}
	third[0], third[1] = third[1], third[0]
	return []distractor{
		{values: first, why: whyFirst},
		{values: second, why: whySecond},
		{values: third, why: whySwap},
	}
}

// fallback walks outward from the correct answer until it finds a value
// that is neither taken nor implausible.
func (in *instance) fallback(seen map[string]bool) distractor {
	for k := 1; k <= maxFallbackDistance; k++ {
		for _, sgn := range []int{1, -1} {
			for i := range in.values {
				cand := cloneRats(in.values)
				if in.shape == skills.ShapeScalar {
					cand[i] = in.shift(cand[i], sgn*k)
				} else {
					cand[i].Add(cand[i], big.NewRat(int64(sgn*k), 1))
				}
				if in.acceptable(cand) && !seen[in.key(cand)] {
					return distractor{values: cand, why: whySlip}
				}
			}
		}
	}
	panic(fmt.Sprintf("problemgen: no unique distractor for %s seed %d", in.Skill, in.Seed))
}

// shift returns v + k·step.
func (in *instance) shift(v *big.Rat, k int) *big.Rat {
	d := new(big.Rat).Mul(in.step, big.NewRat(int64(k), 1))
	return d.Add(d, v)
}

func (in *instance) acceptable(vals []*big.Rat) bool {
	if !in.positive {
		return true
	}
	for _, v := range vals {
		if v.Sign() <= 0 {
			return false
		}
	}
	return true
}

// key identifies a choice for duplicate detection. Root pairs compare as
// multisets because their text is sorted.
func (in *instance) key(vals []*big.Rat) string {
	return in.choiceText(vals)
}

// choiceText renders a choice. Root pairs are listed in increasing order,
// the same way the correct answer is.
func (in *instance) choiceText(vals []*big.Rat) string {
	if in.shape == skills.ShapeScalar {
		return in.formatScalar(vals[0])
	}
	if in.unordered {
		vals = cloneRats(vals)
		slices.SortFunc(vals, func(a, b *big.Rat) int { return a.Cmp(b) })
	}
	return formatTuple(vals)
}

func cloneRats(vals []*big.Rat) []*big.Rat {
	out := make([]*big.Rat, len(vals))
	for i, v := range vals {
		out[i] = new(big.Rat).Set(v)
	}
	return out
}
