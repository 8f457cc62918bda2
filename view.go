package formexpr

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/template"
	"github.com/goliatone/go-formexpr/pkg/value"
	"github.com/goliatone/go-formexpr/pkg/viewmeta"
	"github.com/goliatone/go-formexpr/pkg/visibility"
	visexpr "github.com/goliatone/go-formexpr/pkg/visibility/expr"
)

// ViewState is a view evaluated against one record.
type ViewState struct {
	Name    string          `json:"name"`
	Model   string          `json:"model,omitempty"`
	Title   string          `json:"title,omitempty"`
	Hilites []hilite.Hilite `json:"hilites,omitempty"`
	Classes []string        `json:"classes,omitempty"`
	Fields  []FieldState    `json:"fields"`
}

// FieldState is a field evaluated against one record.
type FieldState struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Value any    `json:"value,omitempty"`

	visibility.State

	Hilites  []hilite.Hilite `json:"hilites,omitempty"`
	Classes  []string        `json:"classes,omitempty"`
	Rendered string          `json:"rendered,omitempty"`
	Markup   bool            `json:"markup,omitempty"`
}

// Visible lists the fields that are not hidden.
func (s ViewState) Visible() []FieldState {
	out := make([]FieldState, 0, len(s.Fields))
	for _, field := range s.Fields {
		if !field.Hidden {
			out = append(out, field)
		}
	}
	return out
}

// EvaluateView resolves every field rule, hilite and template of view for
// dc. The first failure aborts with an error naming the field.
func (b *Binder) EvaluateView(view viewmeta.View, dc evalctx.DataContext, opts ...evalctx.Option) (ViewState, error) {
	ctxOpts := b.contextOptions(opts)
	ctx := evalctx.New(dc, ctxOpts...)

	state := ViewState{
		Name:   view.Name,
		Model:  view.Model,
		Title:  view.Title,
		Fields: make([]FieldState, 0, len(view.Fields)),
	}

	active, err := hilite.New(view.Hilites, b.exprs).ApplyContext(ctx)
	if err != nil {
		return ViewState{}, fmt.Errorf("formexpr: view %q: %w", view.Name, err)
	}
	state.Hilites = active
	state.Classes = hilite.Classes(active)

	rules := visexpr.New(b.exprs, ctxOpts...)
	for _, field := range view.Fields {
		fs, err := b.evaluateField(field, dc, ctx, rules, ctxOpts)
		if err != nil {
			return ViewState{}, fmt.Errorf("formexpr: view %q field %q: %w", view.Name, field.Name, err)
		}
		state.Fields = append(state.Fields, fs)
	}

	b.logger.Debug("view evaluated",
		"view", view.Name,
		"fields", len(state.Fields),
		"hilites", len(state.Hilites),
	)
	return state, nil
}

func (b *Binder) evaluateField(field viewmeta.Field, dc evalctx.DataContext, ctx evalctx.EvalContext, rules visibility.Evaluator, opts []evalctx.Option) (FieldState, error) {
	fs := FieldState{
		Name:  field.Name,
		Title: field.Label(),
	}
	if v, ok := value.Lookup(ctx, field.Name); ok {
		fs.Value = v
	}

	st, err := visibility.Resolve(field.Name, field.Rules, rules, visibility.Context{Values: dc})
	if err != nil {
		return FieldState{}, err
	}
	fs.State = st

	active, err := hilite.New(field.Hilites, b.exprs).ApplyContext(ctx)
	if err != nil {
		return FieldState{}, err
	}
	fs.Hilites = active
	fs.Classes = hilite.Classes(active)

	if strings.TrimSpace(field.Template) == "" {
		return fs, nil
	}
	compiled, err := b.templates.Compile(field.Template)
	if err != nil {
		return FieldState{}, err
	}
	out, err := compiled.RenderData(dc, opts...)
	if err != nil {
		return FieldState{}, err
	}
	fs.Rendered = out.Value
	fs.Markup = out.Kind == template.KindMarkup
	return fs, nil
}
