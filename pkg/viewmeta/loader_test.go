package viewmeta_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/viewmeta"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

const orderYAML = `
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
      - name: note
`

const customerJSON = `{
  "views": {
    "customer-list": {
      "model": "res.Partner",
      "fields": [{"name": "name", "requiredIf": "true"}]
    }
  }
}`

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"views/order.yaml":    {Data: []byte(orderYAML)},
		"views/customer.json": {Data: []byte(customerJSON)},
		"views/README.md":     {Data: []byte("ignored")},
	}

	store, err := viewmeta.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"customer-list", "order-form"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	view, ok := store.View("order-form")
	if !ok {
		t.Fatalf("order-form not found")
	}
	if view.Model != "sale.Order" || view.Source != "views/order.yaml" {
		t.Fatalf("unexpected view header %+v", view)
	}

	want := viewmeta.Field{
		Name:     "amount",
		Title:    "Amount",
		Rules:    visibility.Rules{ShowIf: "confirmed"},
		Hilites:  []hilite.Hilite{{Condition: "amount > 1000", Background: "warning"}},
		Template: "<><b>{amount}</b></>",
	}
	got, ok := view.Field("amount")
	if !ok {
		t.Fatalf("amount field missing")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}

	note, _ := view.Field("note")
	if note.Label() != "note" {
		t.Fatalf("expected label fallback to name, got %q", note.Label())
	}

	customer, _ := store.View("customer-list")
	if customer.Fields[0].RequiredIf != "true" {
		t.Fatalf("expected JSON requiredIf to decode, got %+v", customer.Fields[0])
	}
}

func TestLoadFSDuplicateView(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(orderYAML)},
		"b.yaml": {Data: []byte(orderYAML)},
	}

	_, err := viewmeta.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate view "order-form"`) {
		t.Fatalf("expected duplicate view error, got %v", err)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":       "  ",
		"invalid":     "views: [",
		"blank name":  "views:\n  \" \":\n    model: x\n",
		"blank field": "views:\n  a:\n    fields:\n      - title: T\n",
		"dup field":   "views:\n  a:\n    fields:\n      - name: x\n      - name: x\n",
	}

	for name, doc := range cases {
		if _, err := viewmeta.ParseDocument([]byte(doc), name+".yaml"); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNilStore(t *testing.T) {
	t.Parallel()

	store, err := viewmeta.LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS(nil) returned error: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
	if _, ok := store.View("missing"); ok {
		t.Fatalf("expected missing view")
	}
}
