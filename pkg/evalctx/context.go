package evalctx

import (
	"reflect"
	"sort"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/goliatone/go-formexpr/pkg/session"
	"github.com/goliatone/go-formexpr/pkg/value"
)

// RecordKey is the binding that aliases the context itself.
const RecordKey = "record"

// DataContext is a record's field-name-to-value mapping.
type DataContext map[string]any

// EvalContext is an evaluation-ready context derived from a DataContext.
type EvalContext map[string]any

// Lookup resolves a dot-path inside the context.
func (c EvalContext) Lookup(path string) (any, bool) {
	return value.Lookup(map[string]any(c), path)
}

// Record returns the aliased record map.
func (c EvalContext) Record() map[string]any {
	if rec, ok := c[RecordKey].(map[string]any); ok {
		return rec
	}
	return nil
}

// Option configures context construction.
type Option func(*config)

type config struct {
	bindings map[string]any
	helpers  map[string]any
	session  *session.Info
}

// WithBindings adds extra name/value pairs. Bindings override record fields
// and helpers with the same name.
func WithBindings(bindings map[string]any) Option {
	return func(cfg *config) {
		if len(bindings) == 0 {
			return
		}
		if cfg.bindings == nil {
			cfg.bindings = make(map[string]any, len(bindings))
		}
		for key, v := range bindings {
			if key = strings.TrimSpace(key); key != "" {
				cfg.bindings[key] = v
			}
		}
	}
}

// WithHelpers registers helper functions, replacing built-ins of the same
// name.
func WithHelpers(helpers map[string]any) Option {
	return func(cfg *config) {
		if len(helpers) == 0 {
			return
		}
		if cfg.helpers == nil {
			cfg.helpers = make(map[string]any, len(helpers))
		}
		for key, fn := range helpers {
			if key = strings.TrimSpace(key); key != "" && fn != nil {
				cfg.helpers[key] = fn
			}
		}
	}
}

// WithSession exposes the session user through `$user`, `$userId`,
// `$userName`, `$group` and `$lang`.
func WithSession(info *session.Info) Option {
	return func(cfg *config) {
		cfg.session = info
	}
}

// Clone deep-copies dc and expands dotted keys into nested maps. Keys are
// applied in sorted order so "a" lands before "a.b". A `record` entry that
// aliases dc itself is dropped.
func Clone(dc DataContext) map[string]any {
	return clone(dc, isSelfAlias(dc))
}

func clone(dc DataContext, skipRecord bool) map[string]any {
	out := make(map[string]any, len(dc))
	if len(dc) == 0 {
		return out
	}

	keys := make([]string, 0, len(dc))
	for key := range dc {
		if skipRecord && key == RecordKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		setPath(out, key, cloneValue(dc[key]))
	}
	return out
}

func isSelfAlias(dc DataContext) bool {
	rec, ok := dc[RecordKey]
	if !ok || rec == nil {
		return false
	}
	rv := reflect.ValueOf(rec)
	if rv.Kind() != reflect.Map {
		return false
	}
	return rv.UnsafePointer() == reflect.ValueOf(dc).UnsafePointer()
}

func cloneValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return v
	}
	return deepcopy.Copy(v)
}

func setPath(dest map[string]any, key string, v any) {
	if !strings.Contains(key, ".") {
		dest[key] = v
		return
	}
	parts := strings.Split(key, ".")
	current := dest
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = v
}

// New builds the expression-flavor context.
func New(dc DataContext, opts ...Option) EvalContext {
	cfg := resolve(opts)
	return build(dc, cfg, baseHelpers)
}

// NewScript builds the markup-flavor context: everything New provides plus
// the rendering helpers.
func NewScript(dc DataContext, opts ...Option) EvalContext {
	cfg := resolve(opts)
	return build(dc, cfg, func(ctx EvalContext) map[string]any {
		helpers := baseHelpers(ctx)
		for name, fn := range scriptHelpers(ctx) {
			helpers[name] = fn
		}
		return helpers
	})
}

func resolve(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

func build(dc DataContext, cfg *config, helpers func(EvalContext) map[string]any) EvalContext {
	// record is replaced by the alias below; never clone it since it may be
	// a self-referencing context from an earlier evaluation.
	ctx := EvalContext(clone(dc, true))

	for name, fn := range helpers(ctx) {
		ctx[name] = fn
	}
	for name, v := range sessionBindings(cfg.session) {
		ctx[name] = v
	}
	for name, fn := range cfg.helpers {
		ctx[name] = fn
	}
	for name, v := range cfg.bindings {
		ctx[name] = v
	}

	ctx[RecordKey] = map[string]any(ctx)
	return ctx
}

func sessionBindings(info *session.Info) map[string]any {
	if info == nil {
		return nil
	}
	out := map[string]any{
		"$lang": info.Lang(),
	}
	if user := info.User; user != nil {
		out["$user"] = user.Login
		out["$userId"] = user.ID
		out["$userName"] = user.Name
		out["$group"] = user.Group
	}
	return out
}
