package problemgen

import (
	"fmt"
	"strconv"

	"github.com/piepengu/satmath/internal/skills"
)

// linearEquation builds a(x + b) = c with an integer root.
func linearEquation(seed int64) *instance {
	s := newStream(seed)
	a := s.intn(2, 9)
	root := s.intn(-9, 9)
	b := s.intn(-9, 9)
	c := a * (root + b)
	ab := a * b

	prompt := fmt.Sprintf("Solve for x: %d(%s) = %d", a, shifted("x", b), c)
	steps := []string{
		fmt.Sprintf("Distribute: %dx%s = %d", a, signed(ab), c),
		moveConstant(ab, strconv.Itoa(a)+"x", c-ab),
		fmt.Sprintf("Divide by %d: x = %d", a, root),
	}
	in := newInstance(skills.LinearEquation, seed, prompt, steps, ints(root))
	if q, ok := quotient(c-b, a); ok {
		in.withMisconception(q, fmt.Sprintf("Forgot to distribute %d to both terms in the parentheses.", a))
	}
	return in
}

// twoStepEquation builds ax + b = c with an integer root.
func twoStepEquation(seed int64) *instance {
	s := newStream(seed)
	a := s.intn(2, 9)
	root := s.intn(-9, 9)
	b := s.intn(-9, 9)
	c := a*root + b

	prompt := fmt.Sprintf("Solve for x: %dx%s = %d", a, signed(b), c)
	steps := []string{
		moveConstant(b, strconv.Itoa(a)+"x", c-b),
		fmt.Sprintf("Divide by %d: x = %d", a, root),
	}
	in := newInstance(skills.TwoStepEquation, seed, prompt, steps, ints(root))
	if c%a == 0 {
		in.withMisconception(ints(c/a - b)[0], "Divided before moving the constant term.")
	}
	return in
}

// linearSystem2x2 builds a 2x2 system with a nonzero determinant and an
// integer solution chosen first.
func linearSystem2x2(seed int64) *instance {
	s := newStream(seed)
	x0 := s.intn(-5, 5)
	y0 := s.intn(-5, 5)

	a, b, c, d := 1, 2, -2, 3
	for range maxResample {
		ta := nonZero(s.intn(-5, 5), 1)
		tb := nonZero(s.intn(-5, 5), 2)
		tc := nonZero(s.intn(-5, 5), -2)
		td := nonZero(s.intn(-5, 5), 3)
		if ta*td-tb*tc != 0 {
			a, b, c, d = ta, tb, tc, td
			break
		}
	}
	det := a*d - b*c
	e := a*x0 + b*y0
	f := c*x0 + d*y0

	xy := []string{"x", "y"}
	prompt := "Solve the system for (x, y):\n\\[\\begin{cases} " +
		linComb([]int{a, b}, xy) + " = " + strconv.Itoa(e) + ` \\ ` +
		linComb([]int{c, d}, xy) + " = " + strconv.Itoa(f) +
		" \\end{cases}\\]"
	steps := []string{
		"Use elimination or Cramer's rule to solve.",
		fmt.Sprintf("Determinant: %s·%s - %s·%s = %d", paren(a), paren(d), paren(b), paren(c), det),
		fmt.Sprintf("x = (%s·%s - %s·%s) / %d = %d", paren(e), paren(d), paren(b), paren(f), det, x0),
		fmt.Sprintf("y = (%s·%s - %s·%s) / %d = %d", paren(a), paren(f), paren(c), paren(e), det, y0),
		fmt.Sprintf("Solution: x = %d, y = %d", x0, y0),
	}
	return newInstance(skills.LinearSystem2x2, seed, prompt, steps, ints(x0, y0))
}

// fallback3x3 is an invertible matrix used if resampling runs out.
var fallback3x3 = [3][3]int{{1, 1, 1}, {1, -1, 2}, {2, 1, -1}}

// linearSystem3x3 builds a 3x3 system with a nonzero determinant and an
// integer solution chosen first.
func linearSystem3x3(seed int64) *instance {
	s := newStream(seed)
	x0 := s.intn(-5, 5)
	y0 := s.intn(-5, 5)
	z0 := s.intn(-5, 5)

	m := fallback3x3
	for range maxResample {
		var t [3][3]int
		for i := range 3 {
			for j := range 3 {
				t[i][j] = s.intn(-4, 4)
			}
		}
		if det3(t) != 0 {
			m = t
			break
		}
	}

	sol := [3]int{x0, y0, z0}
	vars := []string{"x", "y", "z"}
	prompt := "Solve the system for (x, y, z):\n\\[\\begin{cases} "
	for i, row := range m {
		rhs := row[0]*sol[0] + row[1]*sol[1] + row[2]*sol[2]
		if i > 0 {
			prompt += ` \\ `
		}
		prompt += linComb(row[:], vars) + " = " + strconv.Itoa(rhs)
	}
	prompt += " \\end{cases}\\]"

	steps := []string{
		"Eliminate one variable from two pairs of equations to get a 2×2 system.",
		fmt.Sprintf("Determinant of the coefficient matrix: %d", det3(m)),
		"Solve the 2×2 system, then back-substitute for the third variable.",
		fmt.Sprintf("Solution: x = %d, y = %d, z = %d", x0, y0, z0),
	}
	return newInstance(skills.LinearSystem3x3, seed, prompt, steps, ints(x0, y0, z0))
}

func det3(m [3][3]int) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func nonZero(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
