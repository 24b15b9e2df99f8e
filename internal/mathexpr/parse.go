package mathexpr

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

// Parse parses s into an expression tree. Implicit multiplication such as
// "2x" and bare tuples such as "1,2" are rejected.
func Parse(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &ParseError{Input: s, Msg: "empty expression"}
	}
	if utf8.RuneCountInString(s) > maxInputLen {
		return nil, &ParseError{Input: s, Msg: "expression too long"}
	}
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{input: s, toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s", t.kind)
	}
	return e, nil
}

// ParseRat parses and evaluates s exactly.
func ParseRat(s string) (*big.Rat, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return e.Rat()
}

// ParseTuple parses an ordered tuple of n numeric components. Accepted
// forms are "a,b", "(a, b)", "[a, b]" and whitespace-separated "a b".
func ParseTuple(s string, n int) ([]*big.Rat, error) {
	parts := SplitTuple(s)
	if len(parts) != n {
		return nil, &ParseError{Input: s, Msg: fmt.Sprintf("expected %d components, got %d", n, len(parts))}
	}
	out := make([]*big.Rat, n)
	for i, p := range parts {
		v, err := ParseRat(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SplitTuple strips one pair of enclosing brackets and splits the rest on
// commas, or on whitespace when there are no commas.
func SplitTuple(s string) []string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '(' && s[len(s)-1] == ')') || (s[0] == '[' && s[len(s)-1] == ']') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	if s == "" {
		return nil
	}
	var parts []string
	if strings.Contains(s, ",") {
		parts = strings.Split(s, ",")
	} else {
		parts = strings.Fields(s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// FormatRat renders r as an integer when possible and as "a/b" otherwise.
func FormatRat(r *big.Rat) string {
	return r.RatString()
}

type parser struct {
	input string
	toks  []token
	pos   int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokPlus && t.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binary{op: t.kind, l: left, r: right}
	}
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokStar && t.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binary{op: t.kind, l: left, r: right}
	}
}

func (p *parser) unary() (Expr, error) {
	t := p.peek()
	if t.kind == tokPlus || t.kind == tokMinus {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unary{op: t.kind, x: x}, nil
	}
	return p.power()
}

// power is right-associative and binds tighter than unary minus, so
// -2^2 is -4 and 2^3^2 is 2^9.
func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binary{op: tokCaret, l: base, r: exp}, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t, "malformed number %q", t.text)
		}
		return &number{text: t.text, val: v}, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return &ident{name: t.text}, nil
		}
		p.next()
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &call{name: t.text, args: args}, nil
	case tokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.errorf(c, "expected ')', got %s", c.kind)
		}
		return e, nil
	}
	return nil, p.errorf(t, "unexpected %s", t.kind)
}

func (p *parser) args() ([]Expr, error) {
	var args []Expr
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case tokRParen:
			return args, nil
		default:
			return nil, p.errorf(t, "expected ',' or ')', got %s", t.kind)
		}
	}
}
