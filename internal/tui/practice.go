// Package tui is the terminal practice screen: one skill, one item at a
// time, graded locally with the seeded engine.
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/piepengu/satmath/internal/elaboration"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/skills"
	"github.com/piepengu/satmath/internal/store"
)

const elaborationPoll = 150 * time.Millisecond

// Options configure a practice run.
type Options struct {
	Skill skills.ID

	// Seed fixes the first item; later items use fresh seeds. Zero picks
	// a random first seed.
	Seed int64

	// Count ends the run after that many items; zero means unlimited.
	Count int

	// Attempts, when set, receives every graded answer.
	Attempts store.AttemptRepo
	UserID   string

	// Elaborator, when set, explains a graded item on request.
	Elaborator *elaboration.Service

	Log *logger.Logger
}

type phase int

const (
	phaseAnswer phase = iota
	phaseFeedback
	phaseDone
)

type attemptSavedMsg struct{ err error }

type elaborationPollMsg struct{}

// Model is the practice screen.
type Model struct {
	opts  Options
	entry problemgen.Entry
	log   *logger.Logger

	seed    int64
	item    problemgen.Item
	input   answerInput
	choices choiceList
	started time.Time

	phase  phase
	result problemgen.Result

	correct  int
	answered int

	elab        *elaboration.Result
	elabPending bool

	status string
	width  int
	height int

	now      func() time.Time
	nextSeed func() int64
}

// New builds a practice model. It fails for an unknown skill.
func New(opts Options) (*Model, error) {
	e, ok := problemgen.Get(opts.Skill)
	if !ok {
		return nil, fmt.Errorf("unknown skill %q", opts.Skill)
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	m := &Model{
		opts:     opts,
		entry:    e,
		log:      log.With("component", "tui"),
		now:      time.Now,
		nextSeed: func() int64 { return 1 + rand.Int64N(problemgen.MaxFallbackSeed) },
	}
	seed := opts.Seed
	if seed == 0 {
		seed = m.nextSeed()
	}
	m.load(seed)
	return m, nil
}

func (m *Model) load(seed int64) {
	m.seed = seed
	m.item = m.entry.Generate(seed)
	m.input = newAnswerInput()
	m.choices = choiceList{}
	if mc, ok := m.item.(*problemgen.MCItem); ok {
		m.choices.options = mc.Choices
	}
	m.phase = phaseAnswer
	m.result = problemgen.Result{}
	m.elab = nil
	if m.elabPending && m.opts.Elaborator != nil {
		m.opts.Elaborator.Cancel()
	}
	m.elabPending = false
	m.started = m.now()
}

func (m *Model) isMC() bool { return len(m.choices.options) > 0 }

func (m *Model) Init() tea.Cmd {
	return textinputFocus(m)
}

func textinputFocus(m *Model) tea.Cmd {
	if m.isMC() {
		return nil
	}
	return m.input.model.Focus()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case attemptSavedMsg:
		if msg.err != nil {
			m.log.Warn("attempt_not_saved", "skill", m.entry.Skill.ID, "error", msg.err)
			m.status = "attempt not saved"
		}
		return m, nil

	case elaborationPollMsg:
		if !m.elabPending {
			return m, nil
		}
		if res, ok := m.opts.Elaborator.Consume(); ok {
			m.elab = res
			m.elabPending = false
			return m, nil
		}
		return m, pollElaboration()

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseAnswer:
			return m.updateAnswer(msg)
		case phaseFeedback:
			return m.updateFeedback(msg)
		case phaseDone:
			switch msg.String() {
			case "enter", "q", "esc":
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.phase == phaseAnswer && !m.isMC() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateAnswer(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.isMC() {
		var picked bool
		m.choices, picked = m.choices.Update(msg)
		if !picked {
			return m, nil
		}
		return m, m.grade(problemgen.Response{Choice: m.choices.cursor})
	}

	if msg.String() == "enter" {
		if m.input.Value() == "" {
			return m, nil
		}
		return m, m.grade(problemgen.Response{Text: m.input.Value(), Choice: -1})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateFeedback(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n":
		if m.opts.Count > 0 && m.answered >= m.opts.Count {
			m.phase = phaseDone
			return m, nil
		}
		m.load(m.nextSeed())
		return m, textinputFocus(m)
	case "e":
		if m.opts.Elaborator == nil || m.elabPending || m.elab != nil {
			return m, nil
		}
		p := m.item.Common()
		in := elaboration.Input{
			Domain: p.Domain,
			Skill:  p.Skill,
			Prompt: p.Prompt,
			Answer: p.Answer,
			Steps:  p.Steps,
		}
		if !m.isMC() {
			in.UserAnswer = m.input.Value()
		} else {
			in.UserAnswer = m.choices.options[m.choices.cursor]
		}
		m.opts.Elaborator.Request(context.Background(), in)
		m.elabPending = true
		return m, pollElaboration()
	case "q", "esc":
		m.phase = phaseDone
		return m, nil
	}
	return m, nil
}

func pollElaboration() tea.Cmd {
	return tea.Tick(elaborationPoll, func(time.Time) tea.Msg { return elaborationPollMsg{} })
}

// grade scores the response and returns the command that records it.
func (m *Model) grade(r problemgen.Response) tea.Cmd {
	m.result = m.entry.Grade(m.seed, r)
	m.answered++
	if m.result.Correct {
		m.correct++
	}
	m.phase = phaseFeedback

	if m.opts.Attempts == nil {
		return nil
	}
	elapsed := m.now().Sub(m.started).Milliseconds()
	a := store.Attempt{
		UserID:        m.opts.UserID,
		Domain:        string(m.entry.Skill.Domain),
		Skill:         string(m.entry.Skill.ID),
		Seed:          m.seed,
		Correct:       m.result.Correct,
		CorrectAnswer: m.result.Answer,
		Source:        store.SourceTemplate,
		TimeMs:        &elapsed,
	}
	repo := m.opts.Attempts
	return func() tea.Msg {
		_, err := repo.Record(context.Background(), a)
		return attemptSavedMsg{err: err}
	}
}

// Score returns correct and answered counts.
func (m *Model) Score() (correct, answered int) {
	return m.correct, m.answered
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out the whole screen for the current terminal size.
func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return m.body()
	}
	if m.width < minWidth || m.height < minHeight {
		return renderTooSmall(m.width, m.height)
	}
	header := renderHeader(m.entry.Skill.Name, m.correct, m.answered, m.width)
	footer := renderFooter(m.hints(), m.status, m.width)
	return renderFrame(header, m.body(), footer, m.width, m.height)
}

func (m *Model) hints() []keyHint {
	switch m.phase {
	case phaseAnswer:
		if m.isMC() {
			return []keyHint{{"↑↓", "Move"}, {"A-D", "Pick"}, {"Enter", "Submit"}, {"Ctrl+C", "Quit"}}
		}
		return []keyHint{{"Enter", "Submit"}, {"Ctrl+C", "Quit"}}
	case phaseFeedback:
		h := []keyHint{{"Enter", "Next"}}
		if m.opts.Elaborator != nil {
			h = append(h, keyHint{"E", "Explain"})
		}
		return append(h, keyHint{"Q", "Finish"})
	default:
		return []keyHint{{"Enter", "Exit"}}
	}
}

func (m *Model) body() string {
	if m.phase == phaseDone {
		return m.summary()
	}

	var b strings.Builder
	p := m.item.Common()
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · seed %d", skills.DomainDisplayName(p.Domain), m.seed)))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(plainMath(p.Prompt)))
	b.WriteString("\n\n")
	if p.Diagram != nil {
		b.WriteString(hintStyle.Render(describeDiagram(p.Diagram)))
		b.WriteString("\n\n")
	}

	graded := m.phase == phaseFeedback
	if m.isMC() {
		correct := -1
		if mc, ok := m.item.(*problemgen.MCItem); ok {
			correct = mc.CorrectIndex
		}
		b.WriteString(m.choices.View(graded, correct))
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if graded {
		b.WriteString("\n")
		b.WriteString(m.feedback())
	}
	return b.String()
}

func (m *Model) feedback() string {
	var b strings.Builder
	if m.result.Correct {
		b.WriteString(correctStyle.Render("Correct!"))
	} else {
		b.WriteString(wrongStyle.Render("Not quite.") + " " + bodyStyle.Render("Answer: "+plainMath(m.result.Answer)))
	}
	b.WriteString("\n")
	if m.isMC() && !m.result.Correct && m.result.WhySelected != "" {
		b.WriteString(hintStyle.Render(m.result.WhySelected))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for i, s := range m.result.Steps {
		b.WriteString(bodyStyle.Render(fmt.Sprintf("%d. %s", i+1, plainMath(s))))
		b.WriteString("\n")
	}

	switch {
	case m.elabPending:
		b.WriteString("\n" + dimStyle.Render("Writing an explanation..."))
	case m.elab != nil:
		b.WriteString("\n" + renderElaboration(m.elab))
	}
	return b.String()
}

func renderElaboration(res *elaboration.Result) string {
	e := res.Elaboration
	var b strings.Builder
	field := func(label, text string) {
		if text == "" {
			return
		}
		b.WriteString(skillStyle.Render(label) + " " + bodyStyle.Render(plainMath(text)) + "\n")
	}
	field("Concept:", e.Concept)
	field("Plan:", e.Plan)
	field("Check:", e.QuickCheck)
	field("Watch out:", e.CommonMistake)
	return strings.TrimRight(b.String(), "\n")
}

func describeDiagram(d *problemgen.Diagram) string {
	switch d.Type {
	case "right_triangle":
		return fmt.Sprintf("[right triangle: a=%s b=%s c=%s]", side(d.A), side(d.B), side(d.C))
	case "rectangle":
		return fmt.Sprintf("[rectangle: %d × %d]", d.W, d.H)
	case "triangle":
		if d.Angles != nil {
			return fmt.Sprintf("[triangle: A=%s B=%s C=%s]", angle(d.Angles.A), angle(d.Angles.B), angle(d.Angles.C))
		}
	}
	return "[" + d.Type + "]"
}

func side(n int) string {
	if n == 0 {
		return "?"
	}
	return fmt.Sprint(n)
}

func angle(n int) string {
	if n == 0 {
		return "?"
	}
	return fmt.Sprintf("%d°", n)
}

func (m *Model) summary() string {
	pct := 0
	if m.answered > 0 {
		pct = 100 * m.correct / m.answered
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Session complete"),
		"",
		bodyStyle.Render(fmt.Sprintf("%d of %d correct (%d%%)", m.correct, m.answered, pct)),
	)
}

// Run starts the practice program and blocks until it exits.
func Run(opts Options) (*Model, error) {
	m, err := New(opts)
	if err != nil {
		return nil, err
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return m, fmt.Errorf("run practice: %w", err)
	}
	return m, nil
}
