package template

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
)

// Kind is the template syntax, decided once at compile time.
type Kind int

const (
	// KindLegacy is interpolation text with `{{ }}` placeholders.
	KindLegacy Kind = iota
	// KindMarkup is a `<>...</>` markup fragment.
	KindMarkup
)

func (k Kind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindMarkup:
		return "markup"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	fragmentOpen  = "<>"
	fragmentClose = "</>"
)

// Classify reports KindMarkup when the trimmed template starts with `<>`
// and ends with `</>`.
func Classify(src string) Kind {
	trimmed := strings.TrimSpace(src)
	if len(trimmed) >= len(fragmentOpen)+len(fragmentClose) &&
		strings.HasPrefix(trimmed, fragmentOpen) &&
		strings.HasSuffix(trimmed, fragmentClose) {
		return KindMarkup
	}
	return KindLegacy
}

// Output is rendered template content.
type Output struct {
	Kind  Kind
	Value string
}

func (o Output) String() string { return o.Value }

// Template is a compiled template.
type Template struct {
	source string
	kind   Kind

	segments []expression.Segment
	nodes    []*node

	policy *bluemonday.Policy
	logger *slog.Logger
}

// Source returns the template text.
func (t *Template) Source() string { return t.source }

// Kind returns the classification made at compile time.
func (t *Template) Kind() Kind { return t.kind }

// Render renders the template against ctx.
func (t *Template) Render(ctx evalctx.EvalContext) (Output, error) {
	if t == nil {
		return Output{}, nil
	}
	if t.kind == KindMarkup {
		return t.renderMarkup(ctx)
	}
	return t.renderLegacy(ctx), nil
}

// RenderData builds the context flavor matching the template kind from dc
// and renders: markup gets the script context with formatting helpers,
// legacy text the expression context.
func (t *Template) RenderData(dc evalctx.DataContext, opts ...evalctx.Option) (Output, error) {
	if t != nil && t.kind == KindMarkup {
		return t.Render(evalctx.NewScript(dc, opts...))
	}
	return t.Render(evalctx.New(dc, opts...))
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithExpressions shares an expression cache with the compiler.
func WithExpressions(cache *expression.Cache) Option {
	return func(c *Compiler) {
		if cache != nil {
			c.exprs = cache
		}
	}
}

// WithSanitizer replaces the markup sanitizer policy. A nil policy disables
// sanitizing.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(c *Compiler) {
		c.policy = policy
		c.policySet = true
	}
}

// WithLogger sets the logger used to report swallowed legacy failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler compiles templates, sharing an expression cache.
type Compiler struct {
	exprs     *expression.Cache
	policy    *bluemonday.Policy
	policySet bool
	logger    *slog.Logger
}

// NewCompiler returns a compiler applying opts.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.exprs == nil {
		c.exprs = expression.NewCache(nil)
	}
	if !c.policySet {
		c.policy = DefaultPolicy()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

var (
	defaultCompilerOnce sync.Once
	defaultCompiler     *Compiler
)

// Compile compiles src with a shared default compiler.
func Compile(src string) (*Template, error) {
	defaultCompilerOnce.Do(func() {
		defaultCompiler = NewCompiler()
	})
	return defaultCompiler.Compile(src)
}

// Compile classifies and compiles src.
func (c *Compiler) Compile(src string) (*Template, error) {
	t := &Template{
		source: src,
		kind:   Classify(src),
		policy: c.policy,
		logger: c.logger,
	}

	if t.kind == KindMarkup {
		nodes, err := c.parseMarkup(src)
		if err != nil {
			return nil, err
		}
		t.nodes = nodes
		return t, nil
	}

	segments, err := c.exprs.Compiler().CompileSegments(src)
	if err != nil {
		return nil, err
	}
	t.segments = segments
	return t, nil
}

var (
	defaultPolicyOnce sync.Once
	defaultPolicy     *bluemonday.Policy
)

// DefaultPolicy is the UGC policy plus `class` on every element.
func DefaultPolicy() *bluemonday.Policy {
	defaultPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		defaultPolicy = policy
	})
	return defaultPolicy
}
