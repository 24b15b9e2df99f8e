package problemgen

import (
	"math/big"

	"github.com/piepengu/satmath/internal/skills"
)

// Format describes how the learner answers an item.
type Format string

const (
	// FormatSPR is a student-produced response: the learner types the answer.
	FormatSPR Format = "SPR"

	// FormatMC means the learner picks one of four choices.
	FormatMC Format = "MC"
)

// Problem holds the fields shared by every generated item.
type Problem struct {
	Domain skills.Domain `json:"domain"`
	Skill  skills.ID     `json:"skill"`
	Format Format        `json:"format"`
	Seed   int64         `json:"seed"`

	// Prompt is the question text with inline LaTeX.
	Prompt string `json:"prompt_latex"`

	// Answer is the canonical correct answer. Scalars are integers or
	// decimals; systems are "x,y" or "x,y,z"; quadratic roots are "min,max".
	Answer string `json:"solution"`

	// Steps is the worked solution, one line per step. Never empty.
	Steps []string `json:"explanation_steps"`

	Diagram *Diagram `json:"diagram,omitempty"`
}

// Item is a generated practice item. It is implemented only by *SPRItem
// and *MCItem.
type Item interface {
	Common() *Problem
	isItem()
}

// SPRItem is a free-response item.
type SPRItem struct {
	Problem
}

// MCItem is a multiple-choice item with exactly four unique choices.
type MCItem struct {
	Problem

	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`

	// WhyIncorrect is parallel to Choices; each entry names the error that
	// produces that choice. The correct choice carries a confirmation.
	WhyIncorrect []string `json:"why_incorrect"`
}

func (i *SPRItem) Common() *Problem { return &i.Problem }
func (i *MCItem) Common() *Problem  { return &i.Problem }
func (*SPRItem) isItem()            {}
func (*MCItem) isItem()             {}

// Diagram is a structural figure description; rendering is up to the client.
type Diagram struct {
	// Type is one of "right_triangle", "rectangle" or "triangle".
	Type string `json:"type"`

	A int `json:"a,omitempty"`
	B int `json:"b,omitempty"`
	C int `json:"c,omitempty"`
	W int `json:"w,omitempty"`
	H int `json:"h,omitempty"`

	Angles *Angles           `json:"angles,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// Angles holds interior angles of a triangle in degrees.
type Angles struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

// Response is a learner's answer: Text for free response, Choice for
// multiple choice. Choice -1 means nothing was selected.
type Response struct {
	Text   string
	Choice int
}

// Result is the outcome of grading a response.
type Result struct {
	Correct bool     `json:"correct"`
	Answer  string   `json:"correct_answer"`
	Steps   []string `json:"explanation_steps"`

	// WhySelected is the rationale of the chosen option (MC only).
	WhySelected string `json:"why_selected,omitempty"`
}

// instance is a generated problem together with the exact values needed
// to grade it and to derive distractors.
type instance struct {
	Problem

	values    []*big.Rat
	shape     skills.Shape
	unordered bool

	// step is the unit used for scalar distractor offsets.
	step *big.Rat
	// decimals > 0 renders scalar choices with that many places.
	decimals int
	// positive marks quantities that can never be zero or negative, so a
	// sign-flipped distractor would be implausible.
	positive bool

	misconception *distractor
}

func (in *instance) spr() *SPRItem {
	p := in.Problem
	p.Format = FormatSPR
	return &SPRItem{Problem: p}
}
