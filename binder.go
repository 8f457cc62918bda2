package formexpr

import (
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/session"
	"github.com/goliatone/go-formexpr/pkg/template"
)

// EvalFunc evaluates a compiled expression against a record.
type EvalFunc func(dc evalctx.DataContext, opts ...evalctx.Option) (any, error)

// RenderFunc renders a compiled template against a record.
type RenderFunc func(dc evalctx.DataContext, opts ...evalctx.Option) (template.Output, error)

// HiliteFunc returns the hilites whose condition holds for a record.
type HiliteFunc func(dc evalctx.DataContext, opts ...evalctx.Option) ([]hilite.Hilite, error)

// Binder compiles sources lazily and caches them for its lifetime. It is safe
// for concurrent use.
type Binder struct {
	logger    *slog.Logger
	session   *session.Session
	helpers   map[string]any
	filters   map[string]expression.Filter
	policy    *bluemonday.Policy
	policySet bool

	exprs     *expression.Cache
	templates *template.Cache
}

// New returns a Binder configured by opts.
func New(opts ...Option) *Binder {
	b := &Binder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b.exprs = expression.NewCache(expression.NewCompiler(expression.WithFilters(b.filters)))

	templateOpts := []template.Option{
		template.WithExpressions(b.exprs),
		template.WithLogger(b.logger),
	}
	if b.policySet {
		templateOpts = append(templateOpts, template.WithSanitizer(b.policy))
	}
	b.templates = template.NewCache(template.NewCompiler(templateOpts...))
	return b
}

// Expression returns an evaluator for src. Compilation happens on first call
// and parse errors are reported by every call.
func (b *Binder) Expression(src string) EvalFunc {
	return func(dc evalctx.DataContext, opts ...evalctx.Option) (any, error) {
		compiled, err := b.exprs.Compile(src)
		if err != nil {
			return nil, err
		}
		return compiled.Eval(evalctx.New(dc, b.contextOptions(opts)...))
	}
}

// Condition is Expression reduced to its truthiness.
func (b *Binder) Condition(src string) func(dc evalctx.DataContext, opts ...evalctx.Option) (bool, error) {
	return func(dc evalctx.DataContext, opts ...evalctx.Option) (bool, error) {
		compiled, err := b.exprs.Compile(src)
		if err != nil {
			return false, err
		}
		return compiled.Bool(evalctx.New(dc, b.contextOptions(opts)...))
	}
}

// Template returns a renderer for src.
func (b *Binder) Template(src string) RenderFunc {
	return func(dc evalctx.DataContext, opts ...evalctx.Option) (template.Output, error) {
		compiled, err := b.templates.Compile(src)
		if err != nil {
			return template.Output{}, err
		}
		return compiled.RenderData(dc, b.contextOptions(opts)...)
	}
}

// Hilites returns a filter over list.
func (b *Binder) Hilites(list []hilite.Hilite) HiliteFunc {
	filterer := hilite.New(list, b.exprs)
	return func(dc evalctx.DataContext, opts ...evalctx.Option) ([]hilite.Hilite, error) {
		return filterer.Apply(dc, b.contextOptions(opts)...)
	}
}

// Cached reports how many expressions and templates have been compiled.
func (b *Binder) Cached() (expressions, templates int) {
	return b.exprs.Len(), b.templates.Len()
}

// contextOptions puts the binder wide options ahead of the caller's so call
// site bindings win.
func (b *Binder) contextOptions(opts []evalctx.Option) []evalctx.Option {
	out := make([]evalctx.Option, 0, len(opts)+2)
	if b.session != nil {
		out = append(out, evalctx.WithSession(b.session.Info()))
	}
	if len(b.helpers) > 0 {
		out = append(out, evalctx.WithHelpers(b.helpers))
	}
	return append(out, opts...)
}
