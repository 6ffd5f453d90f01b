package formula

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel causes carried by EvalError. Compare with errors.Is.
var (
	// ErrSyntax indicates the expression does not match the grammar.
	ErrSyntax = constError("syntax error")

	// ErrUnresolvedIdentifier indicates an identifier survived substitution.
	ErrUnresolvedIdentifier = constError("unresolved identifier")

	// ErrNonFinite indicates an arithmetic step produced Inf or NaN.
	ErrNonFinite = constError("non-finite result")

	// ErrTypeMismatch indicates arithmetic on a boolean or a boolean where a
	// number was required (and vice versa).
	ErrTypeMismatch = constError("type mismatch")
)

// EvalError is the typed failure returned by Evaluate. Callers aggregating
// many expressions inspect it with errors.As and recover locally.
type EvalError struct {
	// Expr is the expression that failed.
	Expr string
	// Pos is the byte offset of the offending token, or -1 when unknown.
	Pos int
	// Detail is a short description of the failure.
	Detail string
	// Err is one of the package sentinel errors.
	Err error
}

func (e *EvalError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("evaluate %q: %v at offset %d: %s", e.Expr, e.Err, e.Pos, e.Detail)
	}
	return fmt.Sprintf("evaluate %q: %v: %s", e.Expr, e.Err, e.Detail)
}

func (e *EvalError) Unwrap() error { return e.Err }
