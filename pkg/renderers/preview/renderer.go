// Package preview renders an evaluated view as a standalone HTML page. It is
// the CLI's html output and a reference for wiring ViewState into a page.
package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	formexpr "github.com/goliatone/go-formexpr"
	rendertemplate "github.com/goliatone/go-formexpr/pkg/render/template"
	"github.com/goliatone/go-formexpr/pkg/render/template/pongo"
)

// Option customises the preview renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       *string
	showHidden       bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inlined stylesheet. An empty string omits it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// WithHiddenFields renders hidden fields greyed out instead of skipping them.
func WithHiddenFields(show bool) Option {
	return func(cfg *config) {
		cfg.showHidden = show
	}
}

// Renderer turns a ViewState into an HTML page through a template engine.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	showHidden bool
}

// New constructs the preview renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithName("preview"),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("preview renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{
		templates:  renderer,
		stylesheet: stylesheet,
		showHidden: cfg.showHidden,
	}, nil
}

// Name is the registry key for the preview renderer.
func (r *Renderer) Name() string {
	return "preview"
}

// ContentType reports the MIME type of the rendered page.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML page for state.
func (r *Renderer) Render(_ context.Context, state formexpr.ViewState) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("preview renderer: template renderer is nil")
	}

	fields := state.Fields
	if !r.showHidden {
		fields = state.Visible()
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", map[string]any{
		"view":       state,
		"fields":     fields,
		"stylesheet": r.stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render template: %w", err)
	}
	return []byte(result), nil
}
