package skills

import (
	"fmt"
	"strings"
)

// validateSkills performs all structural checks on the given skill set.
// Returns a combined error describing all problems found, or nil if valid.
func validateSkills(all []Skill) error {
	var errs []string

	known := make(map[Domain]bool)
	for _, d := range AllDomains() {
		known[d] = true
	}

	seen := make(map[ID]bool, len(all))
	for _, s := range all {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		seen[s.ID] = true
		if !known[s.Domain] {
			errs = append(errs, fmt.Sprintf("skill %q has unknown domain %q", s.ID, s.Domain))
		}
		if s.Explanation.Concept == "" {
			errs = append(errs, fmt.Sprintf("skill %q has no explanation", s.ID))
		}
	}

	// Every variant must point back at a base skill.
	for _, s := range all {
		if s.MC && !seen[BaseOf(s.ID)] {
			errs = append(errs, fmt.Sprintf("variant %q has no base skill", s.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
