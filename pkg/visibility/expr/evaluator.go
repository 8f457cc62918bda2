package expr

import (
	"strings"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

// Evaluator evaluates visibility rules as expressions. Rules read record
// fields from visibility.Context.Values (also reachable as `record.`) and
// caller bindings from visibility.Context.Extras, both directly and under the
// `extras.` prefix. Blank rules hold.
type Evaluator struct {
	exprs *expression.Cache
	opts  []evalctx.Option
}

// New returns an Evaluator compiling rules through cache; nil gets a private
// cache. opts are applied to every context the evaluator builds.
func New(cache *expression.Cache, opts ...evalctx.Option) *Evaluator {
	if cache == nil {
		cache = expression.NewCache(nil)
	}
	return &Evaluator{exprs: cache, opts: opts}
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval implements visibility.Evaluator.
func (e *Evaluator) Eval(_, rule string, ctx visibility.Context) (bool, error) {
	if strings.TrimSpace(rule) == "" {
		return true, nil
	}

	compiled, err := e.exprs.Compile(rule)
	if err != nil {
		return false, err
	}

	opts := append([]evalctx.Option(nil), e.opts...)
	if len(ctx.Extras) > 0 {
		opts = append(opts,
			evalctx.WithBindings(ctx.Extras),
			evalctx.WithBindings(map[string]any{"extras": ctx.Extras}),
		)
	}
	return compiled.Bool(evalctx.New(evalctx.DataContext(ctx.Values), opts...))
}
