package formula

import (
	"strings"
)

// Substituter replaces variable tokens in expressions with their resolved
// values. Only names in its identifier set are ever replaced, so text that
// merely looks like a variable (inside a numeric literal, or an undeclared
// name) is left alone.
type Substituter struct {
	known map[string]struct{}
}

// NewSubstituter returns a Substituter that recognizes names.
func NewSubstituter(names ...string) *Substituter {
	s := &Substituter{known: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if IsVariableName(n) {
			s.known[n] = struct{}{}
		}
	}
	return s
}

// Knows reports whether name is in the identifier set.
func (s *Substituter) Knows(name string) bool {
	_, ok := s.known[name]
	return ok
}

// Substitute replaces every maximal variable token of expr that is both in
// the identifier set and present in table. Tokens without a value are left
// untouched, which is what allows partially resolved expressions to be
// resolved by a later pass.
func (s *Substituter) Substitute(expr string, table map[string]string) string {
	return substitute(expr, func(name string) (string, bool) {
		if !s.Knows(name) {
			return "", false
		}
		v, ok := table[name]
		return v, ok
	})
}

// Substitute replaces variable tokens of expr using table's keys as the
// identifier set.
func Substitute(expr string, table map[string]string) string {
	return substitute(expr, func(name string) (string, bool) {
		v, ok := table[name]
		return v, ok
	})
}

// IsVariableName reports whether name has the shape of a variable token:
// upper-case letters, digits and underscores, not starting with a digit.
func IsVariableName(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !isDigit(c) && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// Variables returns the distinct variable tokens of expr in order of first
// appearance.
func Variables(expr string) []string {
	var names []string
	seen := map[string]bool{}
	substitute(expr, func(name string) (string, bool) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return "", false
	})
	return names
}

// substitute walks expr word by word. A word is a maximal run of letters,
// digits, underscores and dots; words starting with a digit or dot are
// numeric literals and never substituted.
func substitute(expr string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	b.Grow(len(expr))
	i := 0
	for i < len(expr) {
		if !isWordPart(expr[i]) {
			b.WriteByte(expr[i])
			i++
			continue
		}
		end := i + 1
		for end < len(expr) && isWordPart(expr[end]) {
			end++
		}
		word := expr[i:end]
		i = end
		if !IsVariableName(word) {
			b.WriteString(word)
			continue
		}
		value, ok := lookup(word)
		if !ok {
			b.WriteString(word)
			continue
		}
		b.WriteString(wrap(value))
	}
	return b.String()
}

// wrap parenthesizes value unless it is an unsigned numeric literal, keeping
// operator precedence intact when an expression is spliced into another.
func wrap(value string) string {
	v := strings.TrimSpace(value)
	if isUnsignedLiteral(v) {
		return v
	}
	return "(" + v + ")"
}

func isUnsignedLiteral(s string) bool {
	if s == "" || !(isDigit(s[0]) || s[0] == '.') {
		return false
	}
	return scanNumber(s, 0) == len(s)
}

func isWordPart(c byte) bool { return isIdentPart(c) || c == '.' }
