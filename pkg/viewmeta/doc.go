// Package viewmeta loads view definitions from JSON or YAML documents. A view
// names a model, a title, view level hilites and an ordered list of fields
// carrying visibility rules, hilites and display templates.
package viewmeta
