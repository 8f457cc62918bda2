package formexpr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	formexpr "github.com/goliatone/go-formexpr"
	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/session"
	"github.com/goliatone/go-formexpr/pkg/template"
)

func TestBinderExpression(t *testing.T) {
	t.Parallel()

	b := formexpr.New()
	eval := b.Expression("qty * price")

	got, err := eval(evalctx.DataContext{"qty": 3, "price": 2.5})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != 7.5 {
		t.Fatalf("unexpected result %v", got)
	}

	missing, err := b.Expression("missing")(evalctx.DataContext{})
	if err != nil || missing != nil {
		t.Fatalf("expected absent field to be nil, got %v %v", missing, err)
	}
}

func TestBinderCachesCompiledSources(t *testing.T) {
	t.Parallel()

	b := formexpr.New()
	for i := 0; i < 3; i++ {
		if _, err := b.Expression("a + 1")(evalctx.DataContext{"a": i}); err != nil {
			t.Fatalf("eval: %v", err)
		}
		if _, err := b.Template("Hi {{ a }}")(evalctx.DataContext{"a": i}); err != nil {
			t.Fatalf("render: %v", err)
		}
	}

	exprs, templates := b.Cached()
	if exprs != 1 || templates != 1 {
		t.Fatalf("expected one cached entry each, got %d expressions %d templates", exprs, templates)
	}
}

func TestBinderParseErrorOnEveryCall(t *testing.T) {
	t.Parallel()

	eval := formexpr.New().Expression("a ==")
	for i := 0; i < 2; i++ {
		_, err := eval(evalctx.DataContext{})
		var perr *expression.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("call %d: expected ParseError, got %v", i, err)
		}
	}
}

func TestBinderTemplate(t *testing.T) {
	t.Parallel()

	b := formexpr.New()

	out, err := b.Template("Hello {{name}}!")(evalctx.DataContext{"name": "Bob"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Kind != template.KindLegacy || out.Value != "Hello Bob!" {
		t.Fatalf("unexpected output %+v", out)
	}

	out, err = b.Template("Hello {{name}}!")(evalctx.DataContext{})
	if err != nil || out.Value != "Hello !" {
		t.Fatalf("expected empty substitution, got %q %v", out.Value, err)
	}

	out, err = b.Template("<><b>{name}</b></>")(evalctx.DataContext{"name": "Ann"})
	if err != nil {
		t.Fatalf("render markup: %v", err)
	}
	if out.Kind != template.KindMarkup || out.Value != "<b>Ann</b>" {
		t.Fatalf("unexpected markup output %+v", out)
	}
}

func TestBinderTemplateRendersRecord(t *testing.T) {
	t.Parallel()

	out, err := formexpr.New().Template("Record: {{ record }}")(evalctx.DataContext{"name": "Bob"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Value != `Record: {"name":"Bob"}` {
		t.Fatalf("unexpected record rendering %q", out.Value)
	}
}

func TestBinderSessionAndHelpers(t *testing.T) {
	t.Parallel()

	sess := session.FromInfo(&session.Info{
		User: &session.User{ID: 9, Login: "jdoe", Name: "Jane"},
	})
	b := formexpr.New(
		formexpr.WithSession(sess),
		formexpr.WithHelpers(map[string]any{"vip": 1000}),
	)

	got, err := b.Expression(`$userName + ":" + (total > vip ? "vip" : "regular")`)(evalctx.DataContext{"total": 1500})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "Jane:vip" {
		t.Fatalf("unexpected result %v", got)
	}

	got, err = b.Expression("vip")(evalctx.DataContext{}, evalctx.WithBindings(map[string]any{"vip": 5}))
	if err != nil || got != 5 {
		t.Fatalf("expected call site binding to win, got %v %v", got, err)
	}

	sess.Close()
	got, err = b.Expression("$userName")(evalctx.DataContext{})
	if err != nil || got != nil {
		t.Fatalf("expected no user after close, got %v %v", got, err)
	}
}

func TestBinderHilites(t *testing.T) {
	t.Parallel()

	list := []hilite.Hilite{
		{Condition: "true", Color: "info"},
		{Condition: "", Color: "muted"},
		{Condition: "1 == 2", Color: "danger"},
	}

	got, err := formexpr.New().Hilites(list)(evalctx.DataContext{})
	if err != nil {
		t.Fatalf("hilites: %v", err)
	}
	if diff := cmp.Diff(list[:1], got); diff != "" {
		t.Fatalf("hilite mismatch (-want +got):\n%s", diff)
	}
}

func TestBinderFiltersAndSanitizer(t *testing.T) {
	t.Parallel()

	b := formexpr.New(
		formexpr.WithFilters(map[string]expression.Filter{
			"shout": func(input any, _ ...any) (any, error) {
				s, _ := input.(string)
				return strings.ToUpper(s) + "!", nil
			},
		}),
		formexpr.WithSanitizer(nil),
	)

	out, err := b.Template("{{ name | shout }}")(evalctx.DataContext{"name": "hey"})
	if err != nil || out.Value != "HEY!" {
		t.Fatalf("unexpected filter output %q %v", out.Value, err)
	}

	out, err = b.Template(`<><span style="color:red">{name}</span></>`)(evalctx.DataContext{"name": "x"})
	if err != nil {
		t.Fatalf("render markup: %v", err)
	}
	if !strings.Contains(out.Value, `style="color:red"`) {
		t.Fatalf("expected unsanitized markup, got %q", out.Value)
	}
}
