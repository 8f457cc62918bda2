package expr

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

func TestEvaluatorBooleanComparison(t *testing.T) {
	t.Parallel()

	eval := New(nil)

	ok, err := eval.Eval("threshold", "enabled == true", visibility.Context{
		Values: map[string]any{"enabled": true},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}

	ok, err = eval.Eval("threshold", `count > 3 && role != "guest"`, visibility.Context{
		Values: map[string]any{"count": 5.0, "role": "admin"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for numeric comparison")
	}
}

func TestEvaluatorTruthyAndNot(t *testing.T) {
	t.Parallel()

	eval := New(nil)

	ok, err := eval.Eval("threshold", "enabled", visibility.Context{
		Values: map[string]any{"enabled": "yes"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected non-empty string to be truthy")
	}

	ok, err = eval.Eval("threshold", "!enabled", visibility.Context{
		Values: map[string]any{"enabled": false},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for !false")
	}
}

func TestEvaluatorNestedLookup(t *testing.T) {
	t.Parallel()

	eval := New(nil)

	ok, err := eval.Eval("cta.headline", `record.cta.headline == "Hello"`, visibility.Context{
		Values: map[string]any{
			"cta": map[string]any{
				"headline": "Hello",
			},
		},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true for nested map lookup")
	}

	ok, err = eval.Eval("cta.headline", `cta.headline != ""`, visibility.Context{
		Values: map[string]any{"cta.headline": "Hello"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected flattened dotted keys to expand")
	}
}

func TestEvaluatorMissingIsFalsy(t *testing.T) {
	t.Parallel()

	eval := New(nil)

	ok, err := eval.Eval("threshold", "missing", visibility.Context{})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent field to be falsy")
	}

	ok, err = eval.Eval("threshold", "missing == nil", visibility.Context{})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected missing == nil")
	}
}

func TestEvaluatorExtras(t *testing.T) {
	t.Parallel()

	eval := New(nil)
	ctx := visibility.Context{
		Values: map[string]any{"status": "draft"},
		Extras: map[string]any{"role": "admin"},
	}

	for _, rule := range []string{`role == "admin"`, `extras.role == "admin"`} {
		ok, err := eval.Eval("status", rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", rule, err)
		}
		if !ok {
			t.Fatalf("expected %q to hold", rule)
		}
	}
}

func TestEvaluatorBlankRuleHolds(t *testing.T) {
	t.Parallel()

	ok, err := New(nil).Eval("x", "  ", visibility.Context{})
	if err != nil || !ok {
		t.Fatalf("expected blank rule to hold, got %v %v", ok, err)
	}
}

func TestEvaluatorParseError(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Eval("x", "a ==", visibility.Context{})
	if !errors.Is(err, expression.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}
