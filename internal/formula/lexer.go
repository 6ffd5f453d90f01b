package formula

import (
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lex splits expr into tokens. Whitespace is insignificant.
func lex(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(expr) && isDigit(expr[i+1])):
			end := scanNumber(expr, i)
			f, err := strconv.ParseFloat(expr[i:end], 64)
			if err != nil {
				return nil, &EvalError{Expr: expr, Pos: i, Detail: "malformed number " + strconv.Quote(expr[i:end]), Err: ErrSyntax}
			}
			tokens = append(tokens, token{kind: tokNumber, text: expr[i:end], num: f, pos: i})
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(expr) && isIdentPart(expr[end]) {
				end++
			}
			tokens = append(tokens, token{kind: tokIdent, text: expr[i:end], pos: i})
			i = end
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '<' || c == '>' || c == '=' || c == '!':
			op, width := scanComparison(expr, i)
			if op == "" {
				return nil, &EvalError{Expr: expr, Pos: i, Detail: "unexpected " + strconv.QuoteRune(rune(c)), Err: ErrSyntax}
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: i})
			i += width
		default:
			return nil, &EvalError{Expr: expr, Pos: i, Detail: "unexpected " + strconv.QuoteRune(rune(c)), Err: ErrSyntax}
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(expr)}), nil
}

// scanNumber returns the end offset of the numeric literal starting at i:
// digits, an optional fraction and an optional signed exponent.
func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// scanComparison recognizes the six comparison operators at s[i].
func scanComparison(s string, i int) (string, int) {
	next := byte(0)
	if i+1 < len(s) {
		next = s[i+1]
	}
	switch s[i] {
	case '<':
		if next == '=' {
			return "<=", 2
		}
		return "<", 1
	case '>':
		if next == '=' {
			return ">=", 2
		}
		return ">", 1
	case '=':
		if next == '=' {
			return "==", 2
		}
	case '!':
		if next == '=' {
			return "!=", 2
		}
	}
	return "", 0
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
