// Package expression compiles view-authored expressions into reusable
// evaluators.
//
// Two syntaxes are accepted. Text without `{{` or `}}` is a simple expression
// in the expr-lang grammar (literals, arithmetic, comparison, boolean
// operators, member access, calls, `??`). Anything else is an interpolation:
// literal text mixed with `{{ expr | filter:arg }}` placeholders whose results
// are concatenated.
//
// Identifiers missing from the context evaluate to nil. Malformed input fails
// at compile time with *ParseError and runtime failures surface as
// *EvaluationError.
package expression
