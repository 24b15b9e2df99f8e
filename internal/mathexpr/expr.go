// Package mathexpr parses short arithmetic answers typed by learners and
// evaluates them exactly as rationals.
package mathexpr

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// maxInputLen bounds how much text a single answer may contain.
const maxInputLen = 256

// maxExponent bounds integer powers so evaluation stays cheap.
const maxExponent = 64

// maxPowerBits bounds the size of a power's numerator and denominator.
const maxPowerBits = 4096

// ErrNotNumeric is returned by Rat when an expression contains symbols
// that have no numeric value, such as identifiers or function calls.
var ErrNotNumeric = errors.New("expression is not numeric")

// ErrTooLarge is returned by Rat when a power would exceed maxPowerBits.
var ErrTooLarge = errors.New("expression value too large")

// ParseError describes a malformed expression.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mathexpr: %s at position %d in %q", e.Msg, e.Pos, e.Input)
}

// Expr is a parsed expression tree.
type Expr interface {
	// Rat evaluates the expression exactly.
	Rat() (*big.Rat, error)
	String() string
}

type number struct {
	text string
	val  *big.Rat
}

type ident struct {
	name string
}

type call struct {
	name string
	args []Expr
}

type unary struct {
	op tokenKind
	x  Expr
}

type binary struct {
	op   tokenKind
	l, r Expr
}

func (n *number) Rat() (*big.Rat, error) { return new(big.Rat).Set(n.val), nil }
func (n *number) String() string         { return n.text }

func (id *ident) Rat() (*big.Rat, error) {
	return nil, fmt.Errorf("%w: symbol %q", ErrNotNumeric, id.name)
}
func (id *ident) String() string { return id.name }

func (c *call) Rat() (*big.Rat, error) {
	return nil, fmt.Errorf("%w: function %q", ErrNotNumeric, c.name)
}

func (c *call) String() string {
	parts := make([]string, len(c.args))
	for i, a := range c.args {
		parts[i] = a.String()
	}
	return c.name + "(" + strings.Join(parts, ", ") + ")"
}

func (u *unary) Rat() (*big.Rat, error) {
	v, err := u.x.Rat()
	if err != nil {
		return nil, err
	}
	if u.op == tokMinus {
		v.Neg(v)
	}
	return v, nil
}

func (u *unary) String() string {
	if u.op == tokMinus {
		return "-" + u.x.String()
	}
	return "+" + u.x.String()
}

func (b *binary) Rat() (*big.Rat, error) {
	l, err := b.l.Rat()
	if err != nil {
		return nil, err
	}
	r, err := b.r.Rat()
	if err != nil {
		return nil, err
	}
	switch b.op {
	case tokPlus:
		return l.Add(l, r), nil
	case tokMinus:
		return l.Sub(l, r), nil
	case tokStar:
		return l.Mul(l, r), nil
	case tokSlash:
		if r.Sign() == 0 {
			return nil, errors.New("division by zero")
		}
		return l.Quo(l, r), nil
	case tokCaret:
		return pow(l, r)
	}
	return nil, fmt.Errorf("unknown operator %s", b.op)
}

func (b *binary) String() string {
	op := map[tokenKind]string{tokPlus: "+", tokMinus: "-", tokStar: "*", tokSlash: "/", tokCaret: "^"}[b.op]
	return "(" + b.l.String() + " " + op + " " + b.r.String() + ")"
}

func pow(base, exp *big.Rat) (*big.Rat, error) {
	if !exp.IsInt() {
		return nil, errors.New("non-integer exponent")
	}
	e := exp.Num()
	if !e.IsInt64() || e.Int64() > maxExponent || e.Int64() < -maxExponent {
		return nil, fmt.Errorf("exponent %s out of range", e)
	}
	n := e.Int64()
	if n < 0 {
		if base.Sign() == 0 {
			return nil, errors.New("division by zero")
		}
		base = new(big.Rat).Inv(base)
		n = -n
	}
	bits := max(base.Num().BitLen(), base.Denom().BitLen())
	if int64(bits)*n > maxPowerBits {
		return nil, ErrTooLarge
	}
	num := new(big.Int).Exp(base.Num(), big.NewInt(n), nil)
	den := new(big.Int).Exp(base.Denom(), big.NewInt(n), nil)
	return new(big.Rat).SetFrac(num, den), nil
}
