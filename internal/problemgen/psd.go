package problemgen

import (
	"fmt"
	"math/big"

	"github.com/piepengu/satmath/internal/skills"
)

// proportion builds a/b = x/c where b divides a.
func proportion(seed int64) *instance {
	s := newStream(seed)
	b := s.intn(2, 9)
	c := s.intn(2, 9)
	k := s.intn(1, 9)
	a := b * k
	x := k * c

	prompt := fmt.Sprintf(`Solve for x: \[\frac{%d}{%d} = \frac{x}{%d}\]`, a, b, c)
	steps := []string{
		fmt.Sprintf("Cross-multiply: %d · %d = %d · x", a, c, b),
		fmt.Sprintf("Compute: %d = %dx", a*c, b),
		fmt.Sprintf("Divide both sides by %d: x = %d", b, x),
	}
	in := newInstance(skills.Proportion, seed, prompt, steps, ints(x))
	in.positive = true
	return in.withMisconception(ints(a - b + c)[0], "Used a difference instead of a ratio (additive reasoning).")
}

type pricedItem struct {
	plural, singular string
}

var unitRateItems = []pricedItem{
	{"notebooks", "notebook"},
	{"pens", "pen"},
	{"tickets", "ticket"},
	{"muffins", "muffin"},
	{"markers", "marker"},
	{"bus passes", "bus pass"},
}

// unitRate builds a total-price question whose unit price is a whole
// number of cents.
func unitRate(seed int64) *instance {
	s := newStream(seed)
	it := pick(s, unitRateItems)
	n := s.intn(2, 12)
	cents := s.intn(25, 999)

	unit := big.NewRat(int64(cents), 100)
	total := big.NewRat(int64(n*cents), 100)

	prompt := fmt.Sprintf(`\text{%d %s cost \$%s. What is the cost of one %s, in dollars?}`,
		n, it.plural, total.FloatString(2), it.singular)
	steps := []string{
		"Unit rate = total cost ÷ number of items",
		fmt.Sprintf(`\$%s ÷ %d = \$%s`, total.FloatString(2), n, unit.FloatString(2)),
	}
	in := newInstance(skills.UnitRate, seed, prompt, steps, []*big.Rat{unit})
	in.positive = true
	in.step = big.NewRat(1, 4)
	in.withDecimals(2)
	return in.withMisconception(total, "Used the total cost without dividing by the number of items.")
}
