package formexpr

import (
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formexpr/pkg/expression"
	"github.com/goliatone/go-formexpr/pkg/session"
)

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSession exposes the current session user to every evaluation. The
// session is read on each call so later logins and logouts are visible.
func WithSession(s *session.Session) Option {
	return func(b *Binder) {
		b.session = s
	}
}

// WithHelpers adds helper functions or constants to every context.
func WithHelpers(helpers map[string]any) Option {
	return func(b *Binder) {
		if len(helpers) == 0 {
			return
		}
		if b.helpers == nil {
			b.helpers = make(map[string]any, len(helpers))
		}
		for name, fn := range helpers {
			b.helpers[name] = fn
		}
	}
}

// WithSanitizer replaces the markup template sanitizer. A nil policy disables
// sanitizing.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(b *Binder) {
		b.policy = policy
		b.policySet = true
	}
}

// WithFilters registers interpolation filters in addition to the defaults.
func WithFilters(filters map[string]expression.Filter) Option {
	return func(b *Binder) {
		if len(filters) == 0 {
			return
		}
		if b.filters == nil {
			b.filters = make(map[string]expression.Filter, len(filters))
		}
		for name, fn := range filters {
			b.filters[name] = fn
		}
	}
}
