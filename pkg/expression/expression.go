package expression

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/value"
)

// Kind tells how an expression source was classified.
type Kind int

const (
	// KindSimple is a direct value, boolean or arithmetic expression.
	KindSimple Kind = iota
	// KindInterpolation mixes literal text with `{{ }}` placeholders.
	KindInterpolation
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindInterpolation:
		return "interpolation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classify reports KindSimple when src contains neither `{{` nor `}}`.
func Classify(src string) Kind {
	if !strings.Contains(src, "{{") && !strings.Contains(src, "}}") {
		return KindSimple
	}
	return KindInterpolation
}

// Expression is an immutable compiled expression.
type Expression struct {
	source   string
	kind     Kind
	program  *vm.Program
	segments []Segment
}

// Source returns the text the expression was compiled from.
func (e *Expression) Source() string { return e.source }

// Kind returns the classification made at compile time.
func (e *Expression) Kind() Kind { return e.kind }

// Segments returns the interpolation segments; nil for simple expressions.
func (e *Expression) Segments() []Segment {
	return append([]Segment(nil), e.segments...)
}

// Eval evaluates the expression against ctx. Interpolations made of a single
// placeholder return the raw value; otherwise segments are converted to
// display text and concatenated.
func (e *Expression) Eval(ctx evalctx.EvalContext) (any, error) {
	if e == nil {
		return nil, nil
	}
	if e.kind == KindSimple {
		return run(e.program, e.source, ctx)
	}

	if len(e.segments) == 1 && !e.segments[0].literal {
		return e.segments[0].Eval(ctx)
	}

	var b strings.Builder
	for _, seg := range e.segments {
		v, err := seg.Eval(ctx)
		if err != nil {
			return nil, err
		}
		b.WriteString(value.Display(v))
	}
	return b.String(), nil
}

// Bool evaluates the expression and applies Truthy to the result.
func (e *Expression) Bool(ctx evalctx.EvalContext) (bool, error) {
	v, err := e.Eval(ctx)
	if err != nil {
		return false, err
	}
	return value.Truthy(v), nil
}

// Segment is one piece of an interpolation: literal text or a placeholder.
type Segment struct {
	text    string
	offset  int
	literal bool
	program *vm.Program
	filters []boundFilter
}

type boundFilter struct {
	name string
	fn   Filter
	args []*vm.Program
	srcs []string
}

// Literal reports whether the segment is plain text.
func (s Segment) Literal() bool { return s.literal }

// Text returns the literal text or the placeholder body.
func (s Segment) Text() string { return s.text }

// Offset returns the byte offset of the segment inside its source.
func (s Segment) Offset() int { return s.offset }

// Eval returns the literal text or the filtered placeholder value.
func (s Segment) Eval(ctx evalctx.EvalContext) (any, error) {
	if s.literal {
		return s.text, nil
	}
	v, err := run(s.program, s.text, ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range s.filters {
		args := make([]any, 0, len(f.args))
		for i, prog := range f.args {
			arg, err := run(prog, f.srcs[i], ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		v, err = f.fn(v, args...)
		if err != nil {
			return nil, &EvaluationError{Source: s.text, Err: fmt.Errorf("filter %q: %w", f.name, err)}
		}
	}
	return v, nil
}

func run(program *vm.Program, source string, ctx evalctx.EvalContext) (any, error) {
	if program == nil {
		return nil, nil
	}
	env := map[string]any(ctx)
	if env == nil {
		env = map[string]any{}
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, &EvaluationError{Source: source, Err: err}
	}
	return out, nil
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFilter registers or replaces a single filter.
func WithFilter(name string, fn Filter) Option {
	return func(c *Compiler) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		c.filters[name] = fn
	}
}

// WithFilters registers or replaces several filters.
func WithFilters(filters map[string]Filter) Option {
	return func(c *Compiler) {
		for name, fn := range filters {
			WithFilter(name, fn)(c)
		}
	}
}

// WithExprOptions forwards extra options to the expr-lang compiler, e.g.
// expr.Function definitions or operator overloads.
func WithExprOptions(opts ...expr.Option) Option {
	return func(c *Compiler) {
		c.exprOptions = append(c.exprOptions, opts...)
	}
}

// Compiler turns sources into Expressions. It is safe for concurrent use.
type Compiler struct {
	mu          sync.RWMutex
	filters     map[string]Filter
	exprOptions []expr.Option
}

// NewCompiler returns a compiler seeded with the default filters.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{filters: DefaultFilters()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Compile compiles src with the default compiler.
func Compile(src string) (*Expression, error) {
	return defaultCompiler.Compile(src)
}

// RegisterFilter adds a filter. Existing names are rejected.
func (c *Compiler) RegisterFilter(name string, fn Filter) error {
	name = strings.TrimSpace(name)
	if !isFilterName(name) || fn == nil {
		return errors.New("expression: filter name and function required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.filters[name]; exists {
		return fmt.Errorf("expression: filter %q already exists", name)
	}
	c.filters[name] = fn
	return nil
}

// Compile classifies and compiles src.
func (c *Compiler) Compile(src string) (*Expression, error) {
	if Classify(src) == KindSimple {
		program, err := c.compileProgram(src, src, 0)
		if err != nil {
			return nil, err
		}
		return &Expression{source: src, kind: KindSimple, program: program}, nil
	}

	segments, err := c.CompileSegments(src)
	if err != nil {
		return nil, err
	}
	return &Expression{source: src, kind: KindInterpolation, segments: segments}, nil
}

// CompileSegments scans src as interpolation text and compiles every
// placeholder, regardless of how src would be classified.
func (c *Compiler) CompileSegments(src string) ([]Segment, error) {
	raw, err := scanInterpolation(src)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(raw))
	for _, r := range raw {
		if !r.placeholder {
			segments = append(segments, Segment{text: r.text, offset: r.offset, literal: true})
			continue
		}
		seg, err := c.compilePlaceholder(src, r)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func (c *Compiler) compilePlaceholder(src string, r rawSegment) (Segment, error) {
	pipes := splitTopLevel(r.text, r.offset, '|')
	head := pipes[0]
	program, err := c.compileProgram(src, head.text, head.offset)
	if err != nil {
		return Segment{}, err
	}

	seg := Segment{
		text:    strings.TrimSpace(r.text),
		offset:  r.offset,
		program: program,
	}

	for _, pipe := range pipes[1:] {
		pieces := splitTopLevel(pipe.text, pipe.offset, ':')
		name := strings.TrimSpace(pieces[0].text)
		if !isFilterName(name) {
			return Segment{}, parseErrorf(src, pipe.offset, "invalid filter %q", name)
		}
		fn, ok := c.filter(name)
		if !ok {
			return Segment{}, parseErrorf(src, pipe.offset, "unknown filter %q", name)
		}

		bound := boundFilter{name: name, fn: fn}
		for _, arg := range pieces[1:] {
			if strings.TrimSpace(arg.text) == "" {
				return Segment{}, parseErrorf(src, arg.offset, "empty argument for filter %q", name)
			}
			prog, err := c.compileProgram(src, arg.text, arg.offset)
			if err != nil {
				return Segment{}, err
			}
			bound.args = append(bound.args, prog)
			bound.srcs = append(bound.srcs, strings.TrimSpace(arg.text))
		}
		seg.filters = append(seg.filters, bound)
	}
	return seg, nil
}

func (c *Compiler) filter(name string) (Filter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.filters[name]
	return fn, ok
}

// compileProgram compiles code with expr-lang. Blank code yields a nil
// program which evaluates to nil.
func (c *Compiler) compileProgram(src, code string, offset int) (*vm.Program, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil
	}
	c.mu.RLock()
	// Builtins are disabled so record fields named like them (date, type,
	// count) resolve from the context.
	opts := append([]expr.Option{expr.AllowUndefinedVariables(), expr.DisableAllBuiltins()}, conditionOptions()...)
	opts = append(opts, c.exprOptions...)
	c.mu.RUnlock()

	program, err := expr.Compile(code, opts...)
	if err != nil {
		pe := &ParseError{Source: src, Offset: -1, Err: err}
		if code != src {
			pe.Offset = offset
		}
		return nil, pe
	}
	return program, nil
}
