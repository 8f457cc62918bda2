package expression

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("expression: parse error")
	// ErrEvaluation matches every *EvaluationError via errors.Is.
	ErrEvaluation = errors.New("expression: evaluation error")
)

// ParseError reports malformed expression or template syntax. Offset is the
// byte offset into Source when known, -1 otherwise.
type ParseError struct {
	Source string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("expression: parse %q at offset %d: %v", e.Source, e.Offset, e.Err)
	}
	return fmt.Sprintf("expression: parse %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// EvaluationError reports a runtime failure such as calling a non-function
// or applying an operator to incompatible operands.
type EvaluationError struct {
	Source string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("expression: evaluate %q: %v", e.Source, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrEvaluation) match.
func (e *EvaluationError) Is(target error) bool { return target == ErrEvaluation }

func parseErrorf(source string, offset int, format string, args ...any) *ParseError {
	return &ParseError{Source: source, Offset: offset, Err: fmt.Errorf(format, args...)}
}
