package viewmeta

import (
	"github.com/goliatone/go-formexpr/pkg/hilite"
	"github.com/goliatone/go-formexpr/pkg/visibility"
)

// Store indexes views by name.
type Store struct {
	views map[string]View
}

// View describes a form or list view over a model.
type View struct {
	Name    string          `json:"name" yaml:"name"`
	Model   string          `json:"model,omitempty" yaml:"model,omitempty"`
	Title   string          `json:"title,omitempty" yaml:"title,omitempty"`
	Hilites []hilite.Hilite `json:"hilites,omitempty" yaml:"hilites,omitempty"`
	Fields  []Field         `json:"fields,omitempty" yaml:"fields,omitempty"`
	Source  string          `json:"-" yaml:"-"`
}

// Field describes a single field inside a view.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	visibility.Rules `yaml:",inline"`

	Hilites  []hilite.Hilite `json:"hilites,omitempty" yaml:"hilites,omitempty"`
	Template string          `json:"template,omitempty" yaml:"template,omitempty"`
}

// Field returns the field with the supplied name.
func (v View) Field(name string) (Field, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Label returns the title, falling back to the name.
func (f Field) Label() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}
