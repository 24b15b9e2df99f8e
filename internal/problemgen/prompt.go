package problemgen

import (
	"fmt"
	"strings"

	"github.com/piepengu/satmath/internal/skills"
)

const itemSystemPrompt = `You are an expert digital SAT math item writer.

Rules:
- Write exactly one multiple-choice question for the given domain, skill and difficulty.
- Put math in KaTeX-ready LaTeX between $...$. Do not use \label, \input, \include, \usepackage or document environments.
- In JSON strings escape every LaTeX backslash (write \\frac, \\sqrt).
- Give exactly four distinct choices as bare values, with no "A)" style labels. Exactly one is correct.
- Distractors must come from realistic mistakes such as a sign error, an arithmetic slip or a swapped pair.
- Match the answer shape of the skill: a single number, or an ordered tuple like (x, y) when the skill asks for one.
- Explanation steps are short, one idea each.
- Hints nudge without revealing the answer.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage describes the requested item to the model.
func buildUserMessage(in GenerateInput, sk skills.Skill, cfg AIConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain: %s\n", skills.DomainDisplayName(sk.Domain))
	fmt.Fprintf(&b, "Skill: %s (%s)\n", sk.Name, sk.Base())
	if sk.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", sk.Description)
	}
	if len(sk.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(sk.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Answer shape: %s\n", shapeHint(sk.Shape))
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyOrDefault(in.Difficulty))

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(in.PriorPrompts, cfg.MaxPriorPrompts))
	return b.String()
}

func shapeHint(s skills.Shape) string {
	switch s {
	case skills.ShapePair:
		return "ordered pair, written (a, b)"
	case skills.ShapeTriple:
		return "ordered triple, written (x, y, z)"
	default:
		return "single number"
	}
}

func difficultyOrDefault(d string) string {
	if d == "" {
		return "medium"
	}
	return d
}

// buildDedup lists the most recent prior prompts, or "None".
func buildDedup(prior []string, max int) string {
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	if len(prior) == 0 {
		return "None"
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
