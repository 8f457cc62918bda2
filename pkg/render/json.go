package render

import (
	"context"
	"encoding/json"

	formexpr "github.com/goliatone/go-formexpr"
)

// JSONRenderer emits the view state as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Name() string        { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(_ context.Context, state formexpr.ViewState) ([]byte, error) {
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
