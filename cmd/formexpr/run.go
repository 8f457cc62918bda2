package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	formexpr "github.com/goliatone/go-formexpr"
	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/render"
	"github.com/goliatone/go-formexpr/pkg/renderers/preview"
	"github.com/goliatone/go-formexpr/pkg/renderers/tui"
	"github.com/goliatone/go-formexpr/pkg/session"
	"github.com/goliatone/go-formexpr/pkg/value"
	"github.com/goliatone/go-formexpr/pkg/viewmeta"
)

type config struct {
	views       string
	view        string
	record      string
	expr        string
	template    string
	format      string
	session     string
	interactive bool
	logger      *slog.Logger
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	record, err := loadRecord(cfg.record)
	if err != nil {
		return err
	}
	store, err := loadViews(cfg.views)
	if err != nil {
		return err
	}

	opts := []formexpr.Option{formexpr.WithLogger(logger)}
	if cfg.session != "" {
		sess := session.New(session.FileLoader(cfg.session))
		if _, err := sess.Init(ctx); err != nil {
			return err
		}
		defer sess.Close()
		opts = append(opts, formexpr.WithSession(sess))
	}
	binder := formexpr.New(opts...)

	logger.Debug("inputs loaded",
		"record", cfg.record,
		"fields", len(record),
		"views", len(store.Names()),
	)

	switch {
	case cfg.interactive:
		console, err := tui.New(binder, tui.WithViews(store), tui.WithLogger(logger))
		if err != nil {
			return err
		}
		return console.Run(ctx, record)
	case cfg.expr != "":
		v, err := binder.Expression(cfg.expr)(record)
		if err != nil {
			return err
		}
		return writeValue(out, cfg.format, v, value.Display(v))
	case cfg.template != "":
		rendered, err := binder.Template(cfg.template)(record)
		if err != nil {
			return err
		}
		return writeValue(out, cfg.format, rendered, rendered.Value)
	case cfg.view != "":
		view, ok := store.View(cfg.view)
		if !ok {
			return fmt.Errorf("unknown view %q (known: %s)", cfg.view, strings.Join(store.Names(), ", "))
		}
		state, err := binder.EvaluateView(view, record)
		if err != nil {
			return err
		}
		return writeView(ctx, out, cfg.format, state)
	default:
		return errors.New("one of -expr, -template, -view or -interactive is required")
	}
}

func writeValue(out io.Writer, format string, v any, text string) error {
	switch format {
	case "json":
		return writeJSON(out, v)
	case "", "text", "html":
		_, err := fmt.Fprintln(out, text)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeView(ctx context.Context, out io.Writer, format string, state formexpr.ViewState) error {
	page, err := preview.New()
	if err != nil {
		return err
	}
	registry, err := render.NewRegistry(render.TextRenderer{}, render.JSONRenderer{}, page)
	if err != nil {
		return err
	}

	name := format
	switch format {
	case "":
		name = "text"
	case "html":
		name = page.Name()
	}
	renderer, err := registry.Get(name)
	if err != nil {
		return err
	}
	payload, err := renderer.Render(ctx, state)
	if err != nil {
		return err
	}
	_, err = out.Write(payload)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadRecord(path string) (evalctx.DataContext, error) {
	if path == "" {
		return evalctx.DataContext{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	record := evalctx.DataContext{}
	if err := json.Unmarshal(data, &record); err == nil {
		return record, nil
	}
	record = evalctx.DataContext{}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	return record, nil
}

func loadViews(path string) (*viewmeta.Store, error) {
	if path == "" {
		return viewmeta.NewStore()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	if info.IsDir() {
		return viewmeta.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("views: %w", err)
	}
	views, err := viewmeta.ParseDocument(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return viewmeta.NewStore(views...)
}
