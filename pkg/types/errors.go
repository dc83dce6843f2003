package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind string

// Error kinds. The three Unsupported* kinds are raised by the evaluator for
// shapes and operators outside its closed sets; TypeError is raised by the
// value model itself (indexing undefined, calling a non-function).
const (
	KindUnsupportedNodeType       ErrorKind = "UnsupportedNodeType"
	KindUnsupportedBinaryOperator ErrorKind = "UnsupportedBinaryOperator"
	KindUnsupportedUnaryOperator  ErrorKind = "UnsupportedUnaryOperator"
	KindTypeError                 ErrorKind = "TypeError"
)

// EvalError is a classified evaluation failure.
type EvalError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Kind == KindTypeError {
		return "TypeError: " + e.Message
	}
	return e.Message
}

// KindOf returns the kind of err if it is (or wraps) an *EvalError, and
// false otherwise.
func KindOf(err error) (ErrorKind, bool) {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err is (or wraps) an *EvalError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Common error constructors.

// NewUnsupportedNodeType creates an UnsupportedNodeType error for a node tag.
func NewUnsupportedNodeType(tag string) *EvalError {
	return &EvalError{Kind: KindUnsupportedNodeType, Message: fmt.Sprintf("Unsupported node type: %s", tag)}
}

// NewUnsupportedBinaryOperator creates an UnsupportedBinaryOperator error.
func NewUnsupportedBinaryOperator(op string) *EvalError {
	return &EvalError{Kind: KindUnsupportedBinaryOperator, Message: fmt.Sprintf("Unsupported binary operator: %s", op)}
}

// NewUnsupportedUnaryOperator creates an UnsupportedUnaryOperator error.
func NewUnsupportedUnaryOperator(op string) *EvalError {
	return &EvalError{Kind: KindUnsupportedUnaryOperator, Message: fmt.Sprintf("Unsupported unary operator: %s", op)}
}

// NewTypeError creates a TypeError.
func NewTypeError(msg string) *EvalError {
	return &EvalError{Kind: KindTypeError, Message: msg}
}
