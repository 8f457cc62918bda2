// Package hilite selects the conditional styles that apply to a record.
package hilite

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
)

// Hilite pairs a boolean condition with the effect to apply while it holds.
type Hilite struct {
	Condition  string `json:"condition,omitempty" yaml:"condition,omitempty"`
	CSS        string `json:"css,omitempty" yaml:"css,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Strong     bool   `json:"strong,omitempty" yaml:"strong,omitempty"`
}

// Classes returns the CSS class names for the effect.
func (h Hilite) Classes() []string {
	var out []string
	if c := strings.TrimSpace(h.Color); c != "" {
		out = append(out, "hilite-"+c+"-text")
	}
	if bg := strings.TrimSpace(h.Background); bg != "" {
		out = append(out, "hilite-"+bg)
	}
	if h.Strong {
		out = append(out, "hilite-bold")
	}
	out = append(out, strings.Fields(h.CSS)...)
	return out
}

// Classes flattens the classes of every hilite, dropping duplicates.
func Classes(hilites []Hilite) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, h := range hilites {
		for _, c := range h.Classes() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Filterer binds a hilite list to an expression cache so each condition is
// compiled once.
type Filterer struct {
	hilites []Hilite
	exprs   *expression.Cache
}

// New returns a Filterer over hilites. A nil cache gets a private one.
func New(hilites []Hilite, cache *expression.Cache) *Filterer {
	if cache == nil {
		cache = expression.NewCache(nil)
	}
	return &Filterer{
		hilites: append([]Hilite(nil), hilites...),
		exprs:   cache,
	}
}

// Apply returns, in order, the hilites whose condition holds for dc.
func (f *Filterer) Apply(dc evalctx.DataContext, opts ...evalctx.Option) ([]Hilite, error) {
	if f == nil || len(f.hilites) == 0 {
		return nil, nil
	}
	return f.ApplyContext(evalctx.New(dc, opts...))
}

// ApplyContext is Apply for an already built context.
func (f *Filterer) ApplyContext(ctx evalctx.EvalContext) ([]Hilite, error) {
	if f == nil {
		return nil, nil
	}
	var active []Hilite
	for i, h := range f.hilites {
		if strings.TrimSpace(h.Condition) == "" {
			continue
		}
		e, err := f.exprs.Compile(h.Condition)
		if err != nil {
			return nil, fmt.Errorf("hilite: condition %d: %w", i, err)
		}
		ok, err := e.Bool(ctx)
		if err != nil {
			return nil, fmt.Errorf("hilite: condition %d: %w", i, err)
		}
		if ok {
			active = append(active, h)
		}
	}
	return active, nil
}

// Filter is the one-shot form of New(hilites, nil).Apply(dc, opts...).
func Filter(hilites []Hilite, dc evalctx.DataContext, opts ...evalctx.Option) ([]Hilite, error) {
	return New(hilites, nil).Apply(dc, opts...)
}
