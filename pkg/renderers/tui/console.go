// Package tui runs an interactive terminal console that evaluates
// expressions, templates and views against a record.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	formexpr "github.com/goliatone/go-formexpr"
	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/render"
	"github.com/goliatone/go-formexpr/pkg/value"
	"github.com/goliatone/go-formexpr/pkg/viewmeta"
)

const (
	actionExpression = "Evaluate expression"
	actionTemplate   = "Render template"
	actionView       = "Evaluate view"
	actionQuit       = "Quit"
)

// Console prompts for sources in a loop and prints their results.
type Console struct {
	binder *formexpr.Binder
	driver PromptDriver
	views  *viewmeta.Store
	theme  Theme
	logger *slog.Logger
}

// New builds a console evaluating through binder.
func New(binder *formexpr.Binder, opts ...Option) (*Console, error) {
	if binder == nil {
		return nil, ErrNoBinder
	}
	c := &Console{
		binder: binder,
		theme:  Theme{ResultPrefix: "=> ", ErrorPrefix: "!! "},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil)
	}
	return c, nil
}

// Run loops until the user quits or aborts. Evaluation failures are printed
// and the loop continues; driver failures end it.
func (c *Console) Run(ctx context.Context, record evalctx.DataContext) error {
	actions := []string{actionExpression, actionTemplate}
	if !c.views.Empty() {
		actions = append(actions, actionView)
	}
	actions = append(actions, actionQuit)

	for {
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message: "What next?",
			Options: actions,
		})
		if err != nil {
			return c.finish(err)
		}
		if idx < 0 || idx >= len(actions) || actions[idx] == actionQuit {
			return nil
		}

		var msg string
		switch actions[idx] {
		case actionExpression:
			msg, err = c.expression(ctx, record)
		case actionTemplate:
			msg, err = c.template(ctx, record)
		case actionView:
			msg, err = c.view(ctx, record)
		}
		if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
			return c.finish(err)
		}
		if err != nil {
			c.logger.Debug("console evaluation failed", "action", actions[idx], "error", err)
			msg = c.theme.ErrorPrefix + err.Error()
		} else {
			msg = c.theme.ResultPrefix + msg
		}
		if err := c.driver.Info(ctx, msg); err != nil {
			return c.finish(err)
		}
	}
}

func (c *Console) expression(ctx context.Context, record evalctx.DataContext) (string, error) {
	src, err := c.driver.Input(ctx, InputConfig{
		Message: "Expression",
		Help:    "e.g. amount > 100 && state == 'draft', or Total: {{ amount | number:2 }}",
	})
	if err != nil {
		return "", err
	}
	v, err := c.binder.Expression(src)(record)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%T)", value.Display(v), v), nil
}

func (c *Console) template(ctx context.Context, record evalctx.DataContext) (string, error) {
	src, err := c.driver.Input(ctx, InputConfig{
		Message: "Template",
		Help:    "legacy `Hello {{ name }}` or markup `<><b>{name}</b></>`",
	})
	if err != nil {
		return "", err
	}
	out, err := c.binder.Template(src)(record)
	if err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *Console) view(ctx context.Context, record evalctx.DataContext) (string, error) {
	names := c.views.Names()
	idx, err := c.driver.Select(ctx, SelectConfig{Message: "View", Options: names})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("tui: unknown view selection %d", idx)
	}
	view, _ := c.views.View(names[idx])
	state, err := c.binder.EvaluateView(view, record)
	if err != nil {
		return "", err
	}
	return render.Summary(state), nil
}

func (c *Console) finish(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}
