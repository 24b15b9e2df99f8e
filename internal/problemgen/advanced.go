package problemgen

import (
	"fmt"
	"math/big"

	"github.com/piepengu/satmath/internal/skills"
)

// quadraticRoots builds an expanded a(x - r1)(x - r2) = 0.
func quadraticRoots(seed int64) *instance {
	s := newStream(seed)
	r1 := s.intn(-5, 5)
	r2 := s.intn(-5, 5)
	a := pick(s, []int{1, 1, 1, 2, 3})

	poly := linComb([]int{a, -a * (r1 + r2), a * r1 * r2}, []string{"x^{2}", "x", ""})
	lead := ""
	if a != 1 {
		lead = fmt.Sprint(a)
	}
	lo, hi := min(r1, r2), max(r1, r2)

	prompt := fmt.Sprintf("Solve for x: %s = 0", poly)
	steps := []string{
		fmt.Sprintf("Factor: %s%s%s = 0", lead, factor(r1), factor(r2)),
		fmt.Sprintf("Set each factor to zero: x = %d or x = %d", r1, r2),
		fmt.Sprintf("Roots in increasing order: %d, %d", lo, hi),
	}
	in := newInstance(skills.QuadraticRoots, seed, prompt, steps, ints(lo, hi))
	in.unordered = true
	return in
}

// exponentialSolve builds a·b^x = c. c stays exact so negative exponents
// render as fractions.
func exponentialSolve(seed int64) *instance {
	s := newStream(seed)
	b := s.intn(2, 5)
	x0 := s.intn(-3, 3)
	a := pick(s, []int{1, 2, 3, 4})

	power := ratPow(b, x0)
	c := new(big.Rat).Mul(big.NewRat(int64(a), 1), power)

	var prompt string
	var steps []string
	if a == 1 {
		prompt = fmt.Sprintf("Solve for x: %d^x = %s", b, latexRat(c))
	} else {
		prompt = fmt.Sprintf(`Solve for x: %d\cdot %d^x = %s`, a, b, latexRat(c))
		steps = append(steps, fmt.Sprintf("Divide both sides by %d: %d^x = %s", a, b, latexRat(power)))
	}
	steps = append(steps,
		fmt.Sprintf("Write %s as a power of %d: %s = %d^{%d}", latexRat(power), b, latexRat(power), b, x0),
		fmt.Sprintf(`Take log base %d: x = \log_{%d}(%s) = %d`, b, b, latexRat(power), x0),
	)
	in := newInstance(skills.ExponentialSolve, seed, prompt, steps, ints(x0))
	if power.IsInt() {
		in.withMisconception(power, fmt.Sprintf("Solved for %d^x instead of the exponent x.", b))
	}
	return in
}

// rationalEquation builds a/(x + b) = c where x + b is a nonzero integer d.
func rationalEquation(seed int64) *instance {
	s := newStream(seed)
	root := s.intn(-9, 9)
	d := s.intn(1, 9) * s.sign()
	c := s.intn(1, 6) * s.sign()
	b := d - root
	a := c * d

	den := shifted("x", b)
	prompt := fmt.Sprintf(`Solve for x: \[\frac{%d}{%s} = %d\]`, a, den, c)
	steps := []string{
		fmt.Sprintf("Multiply both sides by %s: %d = %d(%s)", parenExpr(den), a, c, den),
		fmt.Sprintf("Divide both sides by %d: %s = %d", c, den, d),
		moveConstant(b, "x", root),
		fmt.Sprintf("Check: %s = %d is not zero, so x = %d is valid", den, d, root),
	}
	in := newInstance(skills.RationalEquation, seed, prompt, steps, ints(root))
	in.withMisconception(ints(d)[0], fmt.Sprintf("Solved for %s instead of x.", den))
	return in
}

func parenExpr(e string) string {
	if e == "x" {
		return e
	}
	return "(" + e + ")"
}

// ratPow returns b^e exactly for a small integer exponent.
func ratPow(b, e int) *big.Rat {
	n := new(big.Int).Exp(big.NewInt(int64(b)), big.NewInt(int64(abs(e))), nil)
	r := new(big.Rat).SetInt(n)
	if e < 0 {
		r.Inv(r)
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
