package preview_test

import (
	"context"
	"strings"
	"testing"

	formexpr "github.com/goliatone/go-formexpr"
	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/render"
	"github.com/goliatone/go-formexpr/pkg/renderers/preview"
	"github.com/goliatone/go-formexpr/pkg/testsupport"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

func sampleState() formexpr.ViewState {
	return formexpr.ViewState{
		Name:    "order-form",
		Title:   "Order",
		Hilites: []hilite.Hilite{{Condition: "late", Color: "danger"}},
		Classes: []string{"hilite-danger-text"},
		Fields: []formexpr.FieldState{
			{Name: "amount", Title: "Amount", Value: 1200.0, Rendered: "<b>1200</b>", Markup: true, Classes: []string{"hilite-warning"}},
			{Name: "note", Title: "Note", Rendered: "<script>x</script>", State: visibility.State{Required: true}},
			{Name: "secret", Title: "Secret", State: visibility.State{Hidden: true}},
		},
	}
}

func TestRendererRender(t *testing.T) {
	renderer, err := preview.New(preview.WithStylesheet(""))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleState())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`<title>Order</title>`,
		`data-view="order-form"`,
		`hilite-danger-text`,
		`<dd><b>1200</b></dd>`,
		`hilite-warning`,
		`&lt;script&gt;x&lt;/script&gt;`,
		`is-required`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, `data-field="secret"`) {
		t.Fatalf("hidden field should be skipped\n%s", html)
	}
	if strings.Contains(html, "<style>") {
		t.Fatalf("expected stylesheet to be omitted")
	}
}

func TestRendererShowsHiddenFields(t *testing.T) {
	renderer, err := preview.New(preview.WithHiddenFields(true))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleState())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `is-hidden`) || !strings.Contains(html, `data-field="secret"`) {
		t.Fatalf("expected hidden field to be rendered greyed out\n%s", html)
	}
	if !strings.Contains(html, "<style>") {
		t.Fatalf("expected default stylesheet")
	}
}

func TestRendererMetadata(t *testing.T) {
	renderer, err := preview.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "preview" || renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected renderer metadata %q %q", renderer.Name(), renderer.ContentType())
	}
}

func TestRendererRegistersUnderName(t *testing.T) {
	renderer, err := preview.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	registry, err := render.NewRegistry(renderer)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	got, err := registry.Get("preview")
	if err != nil {
		t.Fatalf("get preview: %v", err)
	}
	if !strings.HasPrefix(got.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", got.ContentType())
	}
	if _, err := got.Render(testsupport.Context(t), sampleState()); err != nil {
		t.Fatalf("render through registry: %v", err)
	}
}
