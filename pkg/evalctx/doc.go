// Package evalctx builds evaluation contexts from data records. A context is a
// deep copy of the record with dotted keys expanded into nested maps, a
// `record` key that aliases the context itself, built-in helper functions and
// any caller-supplied bindings. Two flavors exist: New for plain expression
// evaluation and NewScript for markup rendering, which adds formatting
// helpers on top.
package evalctx
