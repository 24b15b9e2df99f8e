// Package adaptive picks the next item difficulty from recent attempts and
// estimates an SAT math section score from overall accuracy.
package adaptive

import "github.com/piepengu/satmath/internal/store"

// Difficulty is the requested level of the next item.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// RecentWindow is how many attempts callers fetch for NextDifficulty.
// Only the newest two drive the decision.
const RecentWindow = 5

// SlowMs marks an attempt as slow.
const SlowMs = 20_000

// NextDifficulty applies the step rule to attempts ordered newest first:
// two correct answers with neither slow moves up to hard, and a wrong
// answer or two slow answers drops to easy. Easy wins when both apply.
// Fewer than two attempts stay at medium unless the one is wrong or slow
// enough to count.
func NextDifficulty(recent []store.Attempt) Difficulty {
	lastTwo := recent[:min(2, len(recent))]

	allCorrect := len(lastTwo) == 2
	anyWrong := false
	slow := 0
	for _, a := range lastTwo {
		if !a.Correct {
			allCorrect = false
			anyWrong = true
		}
		if a.TimeMs != nil && *a.TimeMs > SlowMs {
			slow++
		}
	}

	switch {
	case anyWrong || slow >= 2:
		return Easy
	case allCorrect && slow == 0:
		return Hard
	default:
		return Medium
	}
}
