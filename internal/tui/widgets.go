package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// answerInput is the free-response entry field.
type answerInput struct {
	model textinput.Model
}

func newAnswerInput() answerInput {
	ti := textinput.New()
	ti.Placeholder = "e.g. 7, -3/4, (2, 5)"
	ti.CharLimit = 40
	ti.Focus()
	return answerInput{model: ti}
}

func (a answerInput) Update(msg tea.Msg) (answerInput, tea.Cmd) {
	var cmd tea.Cmd
	a.model, cmd = a.model.Update(msg)
	return a, cmd
}

func (a answerInput) Value() string { return strings.TrimSpace(a.model.Value()) }

func (a answerInput) View() string { return a.model.View() }

// choiceList selects one of four choices with the arrow keys or a letter.
type choiceList struct {
	options []string
	cursor  int
}

var choiceLabels = []string{"A", "B", "C", "D"}

// Update moves the cursor. It reports true when a choice was submitted.
func (c choiceList) Update(msg tea.KeyPressMsg) (choiceList, bool) {
	switch k := msg.String(); k {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.options)-1 {
			c.cursor++
		}
	case "enter":
		return c, true
	case "a", "b", "c", "d":
		if i := int(k[0] - 'a'); i < len(c.options) {
			c.cursor = i
			return c, true
		}
	}
	return c, false
}

// View renders the options. With graded set, the correct option and the
// chosen one are colored.
func (c choiceList) View(graded bool, correct int) string {
	var b strings.Builder
	for i, opt := range c.options {
		prefix := "  "
		if i == c.cursor && !graded {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, choiceLabels[i], plainMath(opt))
		switch {
		case graded && i == correct:
			line = correctStyle.Render(line)
		case graded && i == c.cursor:
			line = wrongStyle.Render(line)
		case graded:
			line = dimStyle.Render(line)
		case i == c.cursor:
			line = cursorStyle.Render(line)
		default:
			line = bodyStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

var mathReplacer = strings.NewReplacer(
	"$", "",
	`\[`, "",
	`\]`, "",
	`\left`, "",
	`\right`, "",
	`\cdot`, "·",
	`\times`, "×",
	`\div`, "÷",
	`\le`, "≤",
	`\ge`, "≥",
	`\circ`, "°",
	`\sqrt`, "√",
	`\quad`, " ",
	`\,`, " ",
	`\text{`, "{",
	`\begin{cases}`, "",
	`\end{cases}`, "",
	`\\`, "; ",
	"&", "",
)

// plainMath renders inline LaTeX as readable terminal text. Fractions
// become (a)/(b); unknown commands are left as written.
func plainMath(s string) string {
	s = mathReplacer.Replace(s)
	for {
		i := strings.Index(s, `\frac{`)
		if i < 0 {
			break
		}
		num, rest, ok := braced(s[i+len(`\frac`):])
		if !ok {
			break
		}
		den, tail, ok := braced(rest)
		if !ok {
			break
		}
		s = s[:i] + "(" + num + ")/(" + den + ")" + tail
	}
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

// braced splits "{x}rest" into x and rest, honoring nesting.
func braced(s string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, "{") {
		return "", s, false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}
