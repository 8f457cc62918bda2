package tui

import (
	"log/slog"

	"github.com/goliatone/go-formexpr/pkg/viewmeta"
)

// Theme captures the prefixes the console prints ahead of results and
// errors.
type Theme struct {
	ResultPrefix string
	ErrorPrefix  string
}

// Option configures the console.
type Option func(*Console)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Console) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithTheme overrides the output prefixes.
func WithTheme(theme Theme) Option {
	return func(c *Console) {
		c.theme = theme
	}
}

// WithViews makes the views selectable from the console menu.
func WithViews(store *viewmeta.Store) Option {
	return func(c *Console) {
		c.views = store
	}
}

// WithLogger sets the logger used for evaluation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}
