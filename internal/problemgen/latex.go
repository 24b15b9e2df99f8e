package problemgen

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// signed renders n as a trailing term: " + 3", " - 3", or "" for zero.
func signed(n int) string {
	switch {
	case n > 0:
		return " + " + strconv.Itoa(n)
	case n < 0:
		return " - " + strconv.Itoa(-n)
	}
	return ""
}

// shifted renders "v + k" with the sign folded in.
func shifted(v string, k int) string {
	return v + signed(k)
}

// paren wraps negative numbers so products read unambiguously.
func paren(n int) string {
	if n < 0 {
		return "(" + strconv.Itoa(n) + ")"
	}
	return strconv.Itoa(n)
}

// linComb renders sum(coefs[i]·vars[i]) skipping zero terms. An empty
// variable name is a constant term.
func linComb(coefs []int, vars []string) string {
	var b strings.Builder
	for i, c := range coefs {
		if c == 0 {
			continue
		}
		first := b.Len() == 0
		mag := c
		if c < 0 {
			mag = -c
		}
		switch {
		case first && c < 0:
			b.WriteString("-")
		case !first && c < 0:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		if mag != 1 || vars[i] == "" {
			b.WriteString(strconv.Itoa(mag))
		}
		b.WriteString(vars[i])
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// factor renders the linear factor with root r.
func factor(r int) string {
	if r == 0 {
		return "x"
	}
	return "(" + shifted("x", -r) + ")"
}

// latexRat renders an exact value, using \frac for non-integers.
func latexRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	num := new(big.Int).Abs(r.Num())
	s := fmt.Sprintf(`\frac{%s}{%s}`, num, r.Denom())
	if r.Sign() < 0 {
		return "-" + s
	}
	return s
}

// formatTuple renders components as "(a, b)".
func formatTuple(vals []*big.Rat) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.RatString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// joinCSV renders components as "a,b", the canonical tuple answer form.
func joinCSV(vals []*big.Rat) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.RatString()
	}
	return strings.Join(parts, ",")
}

func ints(ns ...int) []*big.Rat {
	out := make([]*big.Rat, len(ns))
	for i, n := range ns {
		out[i] = big.NewRat(int64(n), 1)
	}
	return out
}

var one = big.NewRat(1, 1)
