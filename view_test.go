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
	"github.com/goliatone/go-formexpr/pkg/viewmeta"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

const orderView = `
views:
  order-form:
    model: sale.Order
    title: Order
    hilites:
      - condition: "status == 'late'"
        color: danger
    fields:
      - name: amount
        title: Amount
        showIf: "confirmed"
        hilites:
          - condition: "amount > 1000"
            background: warning
        template: "<><b>{amount}</b></>"
      - name: customer.name
        title: Customer
        requiredIf: "status != 'draft'"
        template: "{{ customer.name | uppercase }}"
      - name: note
        readonlyIf: "status == 'late'"
        validIf: "note != ''"
`

func loadView(t *testing.T) viewmeta.View {
	t.Helper()

	views, err := viewmeta.ParseDocument([]byte(orderView), "order.yaml")
	if err != nil {
		t.Fatalf("parse views: %v", err)
	}
	return views[0]
}

func TestEvaluateView(t *testing.T) {
	t.Parallel()

	record := evalctx.DataContext{
		"status":    "late",
		"confirmed": true,
		"amount":    1200,
		"customer":  map[string]any{"name": "Acme"},
		"note":      "",
	}

	state, err := formexpr.New().EvaluateView(loadView(t), record)
	if err != nil {
		t.Fatalf("EvaluateView: %v", err)
	}

	if diff := cmp.Diff([]string{"hilite-danger-text"}, state.Classes); diff != "" {
		t.Fatalf("view classes mismatch (-want +got):\n%s", diff)
	}

	want := []formexpr.FieldState{
		{
			Name:     "amount",
			Title:    "Amount",
			Value:    1200,
			Hilites:  []hilite.Hilite{{Condition: "amount > 1000", Background: "warning"}},
			Classes:  []string{"hilite-warning"},
			Rendered: "<b>1200</b>",
			Markup:   true,
		},
		{
			Name:     "customer.name",
			Title:    "Customer",
			Value:    "Acme",
			State:    visibility.State{Required: true},
			Rendered: "ACME",
		},
		{
			Name:  "note",
			Title: "note",
			Value: "",
			State: visibility.State{Readonly: true, Invalid: true},
		},
	}
	if diff := cmp.Diff(want, state.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, ok := record["record"]; ok {
		t.Fatalf("caller record must not be mutated")
	}
}

func TestEvaluateViewHidesFields(t *testing.T) {
	t.Parallel()

	state, err := formexpr.New().EvaluateView(loadView(t), evalctx.DataContext{"status": "draft"})
	if err != nil {
		t.Fatalf("EvaluateView: %v", err)
	}

	var visible []string
	for _, field := range state.Visible() {
		visible = append(visible, field.Name)
	}
	if diff := cmp.Diff([]string{"customer.name", "note"}, visible); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
	if len(state.Hilites) != 0 {
		t.Fatalf("expected no view hilites, got %v", state.Hilites)
	}
}

func TestEvaluateViewNewRecord(t *testing.T) {
	t.Parallel()

	view := viewmeta.View{
		Name:    "invoice",
		Hilites: []hilite.Hilite{{Condition: "total >= 500 || overdue", Color: "danger"}},
		Fields: []viewmeta.Field{
			{Name: "number", Rules: visibility.Rules{ShowIf: "!archived"}},
			{Name: "total", Rules: visibility.Rules{ReadonlyIf: "locked && total > 0", ValidIf: "!total || total > 0"}},
			{Name: "reason", Rules: visibility.Rules{ShowIf: "not archived && total < 0"}},
		},
	}

	state, err := formexpr.New().EvaluateView(view, evalctx.DataContext{})
	if err != nil {
		t.Fatalf("EvaluateView on a new record: %v", err)
	}
	if len(state.Hilites) != 0 {
		t.Fatalf("expected no hilites for a new record, got %v", state.Hilites)
	}

	want := map[string]visibility.State{
		"number": {},
		"total":  {},
		"reason": {Hidden: true},
	}
	for _, field := range state.Fields {
		if diff := cmp.Diff(want[field.Name], field.State); diff != "" {
			t.Fatalf("field %q state mismatch (-want +got):\n%s", field.Name, diff)
		}
	}
}

func TestEvaluateViewReportsField(t *testing.T) {
	t.Parallel()

	view := viewmeta.View{
		Name:   "broken",
		Fields: []viewmeta.Field{{Name: "x", Rules: visibility.Rules{ShowIf: "a =="}}},
	}

	_, err := formexpr.New().EvaluateView(view, evalctx.DataContext{})
	if !errors.Is(err, expression.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !strings.Contains(err.Error(), `view "broken" field "x"`) {
		t.Fatalf("expected error to name the field, got %v", err)
	}
}
