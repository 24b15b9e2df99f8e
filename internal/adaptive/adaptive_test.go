package adaptive

import (
	"math"
	"testing"

	"github.com/piepengu/satmath/internal/store"
)

func att(correct bool, ms int64) store.Attempt {
	a := store.Attempt{Correct: correct}
	if ms >= 0 {
		a.TimeMs = &ms
	}
	return a
}

func TestNextDifficulty(t *testing.T) {
	tests := []struct {
		name   string
		recent []store.Attempt
		want   Difficulty
	}{
		{"no history", nil, Medium},
		{"one correct", []store.Attempt{att(true, 5000)}, Medium},
		{"one wrong", []store.Attempt{att(false, 5000)}, Easy},
		{"two fast correct", []store.Attempt{att(true, 5000), att(true, 8000)}, Hard},
		{"two correct no timing", []store.Attempt{att(true, -1), att(true, -1)}, Hard},
		{"exactly 20s is not slow", []store.Attempt{att(true, 20000), att(true, 20000)}, Hard},
		{"two correct one slow", []store.Attempt{att(true, 25000), att(true, 5000)}, Medium},
		{"two correct both slow", []store.Attempt{att(true, 25000), att(true, 30000)}, Easy},
		{"newest wrong", []store.Attempt{att(false, 5000), att(true, 5000)}, Easy},
		{"older wrong", []store.Attempt{att(true, 5000), att(false, 5000)}, Easy},
		{"only newest two count", []store.Attempt{att(true, 1000), att(true, 1000), att(false, 1000), att(false, 1000)}, Hard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDifficulty(tt.recent); got != tt.want {
				t.Errorf("NextDifficulty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEstimateScore_Known(t *testing.T) {
	tests := []struct {
		correct, total int
		score          int
		ci             [2]int
	}{
		{0, 0, 500, [2]int{352, 648}},
		{10, 10, 714, [2]int{0, 0}},
		{5, 10, 500, [2]int{0, 0}},
	}
	for _, tt := range tests {
		got, err := EstimateScore(tt.correct, tt.total)
		if err != nil {
			t.Fatalf("EstimateScore(%d, %d) error = %v", tt.correct, tt.total, err)
		}
		if got.Score != tt.score {
			t.Errorf("EstimateScore(%d, %d).Score = %d, want %d", tt.correct, tt.total, got.Score, tt.score)
		}
		if tt.ci != [2]int{} && got.CI68 != tt.ci {
			t.Errorf("EstimateScore(%d, %d).CI68 = %v, want %v", tt.correct, tt.total, got.CI68, tt.ci)
		}
	}
}

func TestEstimateScore_Bounds(t *testing.T) {
	for total := 0; total <= 40; total += 4 {
		prev := 0
		for correct := 0; correct <= total; correct++ {
			e, err := EstimateScore(correct, total)
			if err != nil {
				t.Fatal(err)
			}
			if e.Score < prev {
				t.Errorf("score fell from %d to %d at %d/%d", prev, e.Score, correct, total)
			}
			prev = e.Score
			lo, hi := e.CI68[0], e.CI68[1]
			if lo < MinScore || hi > MinScore+ScoreRange || lo > e.Score || e.Score > hi {
				t.Errorf("%d/%d: score %d outside interval %v", correct, total, e.Score, e.CI68)
			}
			if e.PMean <= 0 || e.PMean >= 1 {
				t.Errorf("%d/%d: p_mean %v outside (0,1)", correct, total, e.PMean)
			}
		}
	}
}

func TestEstimateScore_Clamps(t *testing.T) {
	over, _ := EstimateScore(15, 10)
	all, _ := EstimateScore(10, 10)
	if over != all {
		t.Errorf("EstimateScore(15, 10) = %+v, want %+v", over, all)
	}
	under, _ := EstimateScore(-3, 10)
	none, _ := EstimateScore(0, 10)
	if under != none {
		t.Errorf("EstimateScore(-3, 10) = %+v, want %+v", under, none)
	}
	if _, err := EstimateScore(1, -1); err != ErrNegativeTotal {
		t.Errorf("EstimateScore(1, -1) error = %v, want ErrNegativeTotal", err)
	}
}

func TestIntervalNarrowsWithData(t *testing.T) {
	small, _ := EstimateScore(5, 10)
	large, _ := EstimateScore(50, 100)
	if large.CI68[1]-large.CI68[0] >= small.CI68[1]-small.CI68[0] {
		t.Errorf("interval did not narrow: %v vs %v", small.CI68, large.CI68)
	}
}

func TestRegIncBeta_ClosedForms(t *testing.T) {
	for _, x := range []float64{0.05, 0.2, 0.5, 0.7, 0.95} {
		if got := regIncBeta(x, 1, 1); math.Abs(got-x) > 1e-12 {
			t.Errorf("I_%v(1,1) = %v, want %v", x, got, x)
		}
		want := 3*x*x - 2*x*x*x
		if got := regIncBeta(x, 2, 2); math.Abs(got-want) > 1e-12 {
			t.Errorf("I_%v(2,2) = %v, want %v", x, got, want)
		}
	}
	if regIncBeta(0, 2, 3) != 0 || regIncBeta(1, 2, 3) != 1 {
		t.Error("regIncBeta endpoints wrong")
	}
}

func TestBetaQuantile_Inverts(t *testing.T) {
	for _, q := range []float64{0.16, 0.5, 0.84} {
		x := betaQuantile(q, 7, 4)
		if got := regIncBeta(x, 7, 4); math.Abs(got-q) > 1e-9 {
			t.Errorf("I(betaQuantile(%v)) = %v", q, got)
		}
	}
}
