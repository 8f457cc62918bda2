// Package formexpr binds view-authored expressions, templates and hilites to
// data records. A Binder owns the compiled expression and template caches a
// presentation layer needs for one set of views:
//
//	b := formexpr.New(formexpr.WithLogger(logger))
//	visible, err := b.Expression("state == 'draft'")(record)
//	out, err := b.Template("<><b>{name}</b></>")(record)
//
// Lower level building blocks live under pkg/: evalctx builds evaluation
// contexts, expression and template compile sources, hilite filters
// conditional styles, visibility resolves field rules and viewmeta loads view
// definitions.
package formexpr
