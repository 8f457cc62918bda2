// Package render defines the output seam for evaluated views and a registry
// the CLI and host applications use to pick an output format by name.
package render

import (
	"context"

	formexpr "github.com/goliatone/go-formexpr"
)

// Renderer converts an evaluated view into a byte representation (HTML,
// JSON, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, state formexpr.ViewState) ([]byte, error)
}
