// Package skills is the catalog of practice skills: their domains, answer
// shapes and default tutoring text.
package skills

import (
	"fmt"
	"strings"
)

// catalog holds every skill with precomputed indices.
type catalog struct {
	skills   []Skill
	byID     map[ID]*Skill
	byDomain map[Domain][]Skill
}

// c is the package-level catalog, built once at init.
var c *catalog

func init() {
	all := expand(baseSkills)
	if err := validateSkills(all); err != nil {
		panic(fmt.Sprintf("skills: invalid catalog: %v", err))
	}
	c = buildCatalog(all)
}

// expand appends the multiple-choice variant of every base skill.
func expand(base []Skill) []Skill {
	out := make([]Skill, 0, 2*len(base))
	out = append(out, base...)
	for _, s := range base {
		mc := s
		mc.ID = s.ID + MCSuffix
		mc.Name = s.Name + " (Multiple Choice)"
		mc.MC = true
		out = append(out, mc)
	}
	return out
}

func buildCatalog(all []Skill) *catalog {
	cat := &catalog{
		skills:   all,
		byID:     make(map[ID]*Skill, len(all)),
		byDomain: make(map[Domain][]Skill),
	}
	for i := range cat.skills {
		s := &cat.skills[i]
		cat.byID[s.ID] = s
		cat.byDomain[s.Domain] = append(cat.byDomain[s.Domain], *s)
	}
	return cat
}

// Get returns the skill with the given ID.
func Get(id ID) (Skill, error) {
	s, ok := c.byID[id]
	if !ok {
		return Skill{}, fmt.Errorf("skill not found: %q", id)
	}
	return *s, nil
}

// Lookup returns the skill with the given ID if it belongs to domain.
func Lookup(domain Domain, id ID) (Skill, bool) {
	s, ok := c.byID[id]
	if !ok || s.Domain != domain {
		return Skill{}, false
	}
	return *s, true
}

// All returns every skill, base skills first.
func All() []Skill {
	out := make([]Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Base returns only the free-response skills.
func Base() []Skill {
	out := make([]Skill, 0, len(baseSkills))
	for _, s := range c.skills {
		if !s.MC {
			out = append(out, s)
		}
	}
	return out
}

// ByDomain returns all skills in the given domain.
func ByDomain(d Domain) []Skill {
	src := c.byDomain[d]
	out := make([]Skill, len(src))
	copy(out, src)
	return out
}

// IsMC reports whether id names a multiple-choice variant.
func IsMC(id ID) bool {
	return strings.HasSuffix(string(id), MCSuffix)
}

// BaseOf strips the multiple-choice suffix from id.
func BaseOf(id ID) ID {
	return ID(strings.TrimSuffix(string(id), MCSuffix))
}

// ShapeOf returns the answer shape of a known skill. Both the base and the
// multiple-choice IDs are accepted.
func ShapeOf(id ID) (Shape, bool) {
	s, ok := c.byID[id]
	if !ok {
		return ShapeScalar, false
	}
	return s.Shape, true
}

// ExplanationFor returns the default tutoring card for id, or the zero
// value for unknown skills.
func ExplanationFor(id ID) Explanation {
	if s, ok := c.byID[BaseOf(id)]; ok {
		return s.Explanation
	}
	return Explanation{}
}
