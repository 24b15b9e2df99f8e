package elaboration

import (
	"fmt"
	"strings"

	"github.com/piepengu/satmath/internal/skills"
)

const systemPrompt = `You are a calm SAT math tutor. Explain one item to a student who just answered it.

Rules:
- Be brief. Each text field is one to three sentences.
- Put math in KaTeX-ready LaTeX between $...$ and escape every backslash in JSON strings.
- The walkthrough solves this exact item and ends at the given correct answer.
- If the student's answer is wrong, the common mistake should explain how they likely got it.
- Never use \input, \include, \usepackage, \label or document environments.`

func buildUserMessage(in Input, sk skills.Skill) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain: %s\n", skills.DomainDisplayName(sk.Domain))
	fmt.Fprintf(&b, "Skill: %s\n", sk.Name)
	fmt.Fprintf(&b, "\nItem:\n%s\n", in.Prompt)
	fmt.Fprintf(&b, "\nCorrect answer: %s\n", in.Answer)
	if in.UserAnswer != "" {
		fmt.Fprintf(&b, "Student answered: %s\n", in.UserAnswer)
	}

	if len(in.Steps) > 0 {
		b.WriteString("\nReference solution:\n")
		for i, s := range in.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
