package render

import (
	"context"
	"fmt"
	"strings"

	formexpr "github.com/goliatone/go-formexpr"
	"github.com/goliatone/go-formexpr/pkg/value"
)

// TextRenderer prints one line per field.
type TextRenderer struct{}

func (TextRenderer) Name() string        { return "text" }
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(_ context.Context, state formexpr.ViewState) ([]byte, error) {
	return []byte(Summary(state) + "\n"), nil
}

// Summary formats a view state as its name followed by one indented line per
// field carrying the field flags and hilite classes.
func Summary(state formexpr.ViewState) string {
	var b strings.Builder
	b.WriteString(state.Name)
	if len(state.Classes) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(state.Classes, " "))
	}
	for _, field := range state.Fields {
		b.WriteString("\n  ")
		b.WriteString(field.Title)
		b.WriteString(": ")
		if field.Rendered != "" {
			b.WriteString(field.Rendered)
		} else {
			b.WriteString(value.Display(field.Value))
		}

		var flags []string
		if field.Hidden {
			flags = append(flags, "hidden")
		}
		if field.Readonly {
			flags = append(flags, "readonly")
		}
		if field.Required {
			flags = append(flags, "required")
		}
		if field.Invalid {
			flags = append(flags, "invalid")
		}
		flags = append(flags, field.Classes...)
		if len(flags) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(flags, ", "))
		}
	}
	return b.String()
}
