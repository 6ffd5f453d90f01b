package formula

import (
	"math"
)

// Evaluate parses and evaluates expr with the grammar
//
//	expr       = additive [ cmpOp additive ]
//	additive   = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = ("-" | "+") unary | primary
//	primary    = number | "(" expr ")"
//	cmpOp      = "<" | "<=" | ">" | ">=" | "==" | "!="
//
// Any identifier left in expr is an ErrUnresolvedIdentifier. Every failure is
// returned as *EvalError; Evaluate never panics on malformed input.
func Evaluate(expr string) (Value, error) {
	tokens, err := lex(expr)
	if err != nil {
		return Value{}, err
	}
	p := &parser{expr: expr, tokens: tokens}
	v, err := p.parseExpr()
	if err != nil {
		return Value{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Value{}, p.fail(tok, ErrSyntax, "unexpected "+describe(tok))
	}
	return v, nil
}

// EvaluateNumber evaluates expr and requires a numeric result.
func EvaluateNumber(expr string) (float64, error) {
	v, err := Evaluate(expr)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok {
		return 0, &EvalError{Expr: expr, Pos: -1, Detail: "expected number, got bool", Err: ErrTypeMismatch}
	}
	return f, nil
}

// EvaluateBool evaluates expr and requires a boolean result.
func EvaluateBool(expr string) (bool, error) {
	v, err := Evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.Truth()
	if !ok {
		return false, &EvalError{Expr: expr, Pos: -1, Detail: "expected bool, got number", Err: ErrTypeMismatch}
	}
	return b, nil
}

type parser struct {
	expr   string
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) fail(tok token, cause error, detail string) error {
	return &EvalError{Expr: p.expr, Pos: tok.pos, Detail: detail, Err: cause}
}

func (p *parser) parseExpr() (Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return Value{}, err
	}
	tok := p.peek()
	if tok.kind != tokOp || !isComparison(tok.text) {
		return left, nil
	}
	p.next()
	right, err := p.parseAdditive()
	if err != nil {
		return Value{}, err
	}
	return p.compare(tok, left, right)
}

func (p *parser) parseAdditive() (Value, error) {
	left, err := p.parseTerm()
	if err != nil {
		return Value{}, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return Value{}, err
		}
		if left, err = p.arith(tok, left, right); err != nil {
			return Value{}, err
		}
	}
}

func (p *parser) parseTerm() (Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		if left, err = p.arith(tok, left, right); err != nil {
			return Value{}, err
		}
	}
}

func (p *parser) parseUnary() (Value, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		f, ok := v.Float()
		if !ok {
			return Value{}, p.fail(tok, ErrTypeMismatch, "unary "+tok.text+" on bool")
		}
		if tok.text == "-" {
			f = -f
		}
		return Number(f), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Value, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return Number(tok.num), nil
	case tokIdent:
		return Value{}, p.fail(tok, ErrUnresolvedIdentifier, tok.text)
	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return Value{}, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return Value{}, p.fail(closing, ErrSyntax, "expected ')', got "+describe(closing))
		}
		return v, nil
	default:
		return Value{}, p.fail(tok, ErrSyntax, "unexpected "+describe(tok))
	}
}

func (p *parser) arith(op token, left, right Value) (Value, error) {
	l, lok := left.Float()
	r, rok := right.Float()
	if !lok || !rok {
		return Value{}, p.fail(op, ErrTypeMismatch, "operator "+op.text+" on bool")
	}
	var res float64
	switch op.text {
	case "+":
		res = l + r
	case "-":
		res = l - r
	case "*":
		res = l * r
	case "/":
		res = l / r
	}
	if math.IsInf(res, 0) || math.IsNaN(res) {
		return Value{}, p.fail(op, ErrNonFinite, FormatNumber(l)+" "+op.text+" "+FormatNumber(r))
	}
	return Number(res), nil
}

func (p *parser) compare(op token, left, right Value) (Value, error) {
	if left.Kind() != right.Kind() {
		return Value{}, p.fail(op, ErrTypeMismatch, "cannot compare "+left.Kind().String()+" with "+right.Kind().String())
	}
	if left.Kind() == KindBool {
		switch op.text {
		case "==":
			return Bool(left.b == right.b), nil
		case "!=":
			return Bool(left.b != right.b), nil
		default:
			return Value{}, p.fail(op, ErrTypeMismatch, "operator "+op.text+" on bool")
		}
	}
	l, r := left.num, right.num
	switch op.text {
	case "<":
		return Bool(l < r), nil
	case "<=":
		return Bool(l <= r), nil
	case ">":
		return Bool(l > r), nil
	case ">=":
		return Bool(l >= r), nil
	case "==":
		return Bool(l == r), nil
	default:
		return Bool(l != r), nil
	}
}

func isComparison(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return "end of expression"
	}
	return "'" + tok.text + "'"
}
