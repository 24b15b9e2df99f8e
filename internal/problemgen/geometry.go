package problemgen

import (
	"fmt"
	"strconv"

	"github.com/piepengu/satmath/internal/skills"
)

var pythagoreanTriples = [][3]int{{3, 4, 5}, {5, 12, 13}, {7, 24, 25}, {8, 15, 17}, {9, 12, 15}}

func pythagoreanHypotenuse(seed int64) *instance {
	s := newStream(seed)
	t := pick(s, pythagoreanTriples)
	k := s.intn(1, 5)
	a, b, c := t[0]*k, t[1]*k, t[2]*k

	prompt := fmt.Sprintf(`\text{In a right triangle with legs %d and %d, find the hypotenuse.}`, a, b)
	steps := []string{
		fmt.Sprintf("Use a^2 + b^2 = c^2: %d^2 + %d^2 = c^2", a, b),
		fmt.Sprintf("Compute: %d + %d = %d = c^2", a*a, b*b, c*c),
		fmt.Sprintf("Take square root: c = %d", c),
	}
	in := newInstance(skills.PythagoreanHypotenuse, seed, prompt, steps, ints(c))
	in.Diagram = &Diagram{
		Type: "right_triangle", A: a, B: b, C: c,
		Labels: map[string]string{"a": strconv.Itoa(a), "b": strconv.Itoa(b), "c": "?"},
	}
	in.positive = true
	return in.withMisconception(ints(a + b)[0], "Added the legs without squaring them.")
}

func pythagoreanLeg(seed int64) *instance {
	s := newStream(seed)
	t := pick(s, pythagoreanTriples)
	k := s.intn(1, 5)
	known, other, hyp := t[0]*k, t[1]*k, t[2]*k

	prompt := fmt.Sprintf(`\text{In a right triangle, the hypotenuse is %d and one leg is %d. Find the other leg.}`, hyp, known)
	steps := []string{
		fmt.Sprintf("Use c^2 - a^2 = b^2: %d^2 - %d^2 = b^2", hyp, known),
		fmt.Sprintf("Compute: %d - %d = %d = b^2", hyp*hyp, known*known, other*other),
		fmt.Sprintf("Take square root: b = %d", other),
	}
	in := newInstance(skills.PythagoreanLeg, seed, prompt, steps, ints(other))
	in.Diagram = &Diagram{
		Type: "right_triangle", A: known, B: other, C: hyp,
		Labels: map[string]string{"a": strconv.Itoa(known), "b": "?", "c": strconv.Itoa(hyp)},
	}
	in.positive = true
	return in.withMisconception(ints(hyp - known)[0], "Subtracted the lengths without squaring them.")
}

func rectangleArea(seed int64) *instance {
	s := newStream(seed)
	w := s.intn(2, 20)
	h := s.intn(2, 20)

	prompt := fmt.Sprintf(`\text{A rectangle has width %d and height %d. Find its area.}`, w, h)
	steps := []string{
		"Area = width × height",
		fmt.Sprintf("A = %d × %d = %d", w, h, w*h),
	}
	in := newInstance(skills.RectangleArea, seed, prompt, steps, ints(w*h))
	in.Diagram = rectangleDiagram(w, h)
	in.positive = true
	return in.withMisconception(ints(2 * (w + h))[0], "Used the perimeter formula instead of the area formula.")
}

func rectanglePerimeter(seed int64) *instance {
	s := newStream(seed)
	w := s.intn(2, 20)
	h := s.intn(2, 20)

	prompt := fmt.Sprintf(`\text{A rectangle has width %d and height %d. Find its perimeter.}`, w, h)
	steps := []string{
		"Perimeter = 2(width + height)",
		fmt.Sprintf("P = 2(%d + %d) = 2 × %d = %d", w, h, w+h, 2*(w+h)),
	}
	in := newInstance(skills.RectanglePerimeter, seed, prompt, steps, ints(2*(w+h)))
	in.Diagram = rectangleDiagram(w, h)
	in.positive = true
	return in.withMisconception(ints(w * h)[0], "Used the area formula instead of the perimeter formula.")
}

func rectangleDiagram(w, h int) *Diagram {
	return &Diagram{
		Type: "rectangle", W: w, H: h,
		Labels: map[string]string{"w": strconv.Itoa(w), "h": strconv.Itoa(h)},
	}
}

// triangleAngle builds a triangle with two known interior angles. The
// missing angle is always at least 30 degrees.
func triangleAngle(seed int64) *instance {
	s := newStream(seed)
	a := s.intn(20, 80)
	b := s.intn(20, 150-a)
	c := 180 - a - b

	prompt := fmt.Sprintf(`\text{In triangle } ABC, \angle A = %d^\circ \text{ and } \angle B = %d^\circ. \text{ Find } \angle C \text{ in degrees.}`, a, b)
	steps := []string{
		"Interior angles of a triangle sum to 180°: A + B + C = 180°",
		fmt.Sprintf("C = 180° - %d° - %d° = %d°", a, b, c),
	}
	in := newInstance(skills.TriangleAngle, seed, prompt, steps, ints(c))
	in.Diagram = &Diagram{
		Type:   "triangle",
		Angles: &Angles{A: a, B: b, C: c},
		Labels: map[string]string{"A": fmt.Sprintf("%d°", a), "B": fmt.Sprintf("%d°", b), "C": "?"},
	}
	in.positive = true
	return in.withMisconception(ints(a + b)[0], "Added the known angles instead of subtracting them from 180°.")
}
