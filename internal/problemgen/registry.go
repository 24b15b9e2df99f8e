package problemgen

import (
	"fmt"

	"github.com/piepengu/satmath/internal/skills"
)

// generators maps every base skill to its seeded builder.
var generators = map[skills.ID]func(seed int64) *instance{
	skills.LinearEquation:        linearEquation,
	skills.TwoStepEquation:       twoStepEquation,
	skills.LinearSystem2x2:       linearSystem2x2,
	skills.LinearSystem3x3:       linearSystem3x3,
	skills.QuadraticRoots:        quadraticRoots,
	skills.ExponentialSolve:      exponentialSolve,
	skills.RationalEquation:      rationalEquation,
	skills.Proportion:            proportion,
	skills.UnitRate:              unitRate,
	skills.PythagoreanHypotenuse: pythagoreanHypotenuse,
	skills.PythagoreanLeg:        pythagoreanLeg,
	skills.RectangleArea:         rectangleArea,
	skills.RectanglePerimeter:    rectanglePerimeter,
	skills.TriangleAngle:         triangleAngle,
}

// Entry binds a catalog skill to its generator and grader.
type Entry struct {
	Skill    skills.Skill
	Generate func(seed int64) Item
	Grade    func(seed int64, r Response) Result
}

// registry is built once at init and read-only afterwards.
var registry = buildRegistry()

func buildRegistry() map[skills.ID]Entry {
	reg := make(map[skills.ID]Entry, 2*len(generators))
	for _, sk := range skills.All() {
		gen, ok := generators[sk.Base()]
		if !ok {
			continue
		}
		if sk.MC {
			reg[sk.ID] = Entry{
				Skill:    sk,
				Generate: func(seed int64) Item { return buildMC(gen(seed)) },
				Grade: func(seed int64, r Response) Result {
					return gradeChoice(buildMC(gen(seed)), r.Choice)
				},
			}
			continue
		}
		reg[sk.ID] = Entry{
			Skill:    sk,
			Generate: func(seed int64) Item { return gen(seed).spr() },
			Grade: func(seed int64, r Response) Result {
				return gradeText(gen(seed), r.Text)
			},
		}
	}
	return reg
}

// Get returns the entry for a skill ID.
func Get(id skills.ID) (Entry, bool) {
	e, ok := registry[id]
	return e, ok
}

// Lookup returns the entry for a (domain, skill) pair.
func Lookup(domain skills.Domain, id skills.ID) (Entry, bool) {
	e, ok := registry[id]
	if !ok || e.Skill.Domain != domain {
		return Entry{}, false
	}
	return e, true
}

// Entries returns every registered entry in catalog order.
func Entries() []Entry {
	out := make([]Entry, 0, len(registry))
	for _, sk := range skills.All() {
		if e, ok := registry[sk.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Generate builds the item for skill id and seed.
func Generate(id skills.ID, seed int64) (Item, error) {
	e, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("no generator for skill %q", id)
	}
	return e.Generate(seed), nil
}

// Grade grades a response to the item identified by skill id and seed.
func Grade(id skills.ID, seed int64, r Response) (Result, error) {
	e, ok := registry[id]
	if !ok {
		return Result{}, fmt.Errorf("no grader for skill %q", id)
	}
	return e.Grade(seed, r), nil
}

// Hints returns the first one or two worked steps of an item.
func Hints(it Item) []string {
	steps := it.Common().Steps
	n := min(2, len(steps))
	out := make([]string, n)
	copy(out, steps[:n])
	return out
}
