package adaptive

import (
	"errors"
	"math"
)

// Beta(2, 2) prior on the probability of answering correctly.
const (
	priorAlpha = 2.0
	priorBeta  = 2.0
)

// Section score scale.
const (
	MinScore   = 200
	ScoreRange = 600
)

// Estimate is a projected section score with a 68% credible interval.
type Estimate struct {
	Score int     `json:"score"`
	CI68  [2]int  `json:"ci68"`
	PMean float64 `json:"p_mean"`
}

// ErrNegativeTotal is returned for a negative attempt count.
var ErrNegativeTotal = errors.New("total must not be negative")

// EstimateScore updates the prior with correct out of total answers and
// maps the posterior mean and its 16th and 84th percentiles onto the
// 200-800 scale. correct is clamped into [0, total]; a total of zero
// yields the prior alone.
func EstimateScore(correct, total int) (Estimate, error) {
	if total < 0 {
		return Estimate{}, ErrNegativeTotal
	}
	correct = max(0, min(correct, total))

	a := priorAlpha + float64(correct)
	b := priorBeta + float64(total-correct)
	mean := a / (a + b)

	return Estimate{
		Score: scale(mean),
		CI68:  [2]int{scale(betaQuantile(0.16, a, b)), scale(betaQuantile(0.84, a, b))},
		PMean: mean,
	}, nil
}

// scale maps a probability onto the score scale, rounding half to even.
func scale(p float64) int {
	return MinScore + int(math.RoundToEven(ScoreRange*p))
}

// betaQuantile inverts the regularized incomplete beta function by
// bisection. The CDF is monotone on [0, 1], so 60 halvings reach full
// float64 precision.
func betaQuantile(q, a, b float64) float64 {
	lo, hi := 0.0, 1.0
	for range 60 {
		mid := (lo + hi) / 2
		if regIncBeta(mid, a, b) < q {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// regIncBeta is I_x(a, b), evaluated with Lentz's continued fraction on
// whichever tail converges fastest.
func regIncBeta(x, a, b float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	front := math.Exp(lab - la - lb + a*math.Log(x) + b*math.Log1p(-x))

	if x < (a+1)/(a+b+2) {
		return front * betaCF(x, a, b) / a
	}
	return 1 - front*betaCF(1-x, b, a)/b
}

func betaCF(x, a, b float64) float64 {
	const (
		maxIter = 300
		eps     = 1e-15
		tiny    = 1e-300
	)
	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}
