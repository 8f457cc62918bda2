package template

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formexpr/pkg/evalctx"
	"github.com/goliatone/go-formexpr/pkg/value"
)

func (t *Template) renderLegacy(ctx evalctx.EvalContext) Output {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.Literal() {
			b.WriteString(seg.Text())
			continue
		}
		v, err := seg.Eval(ctx)
		if err != nil {
			t.logger.Debug("template: placeholder rendered empty",
				slog.String("expression", seg.Text()),
				slog.Any("error", err),
			)
			continue
		}
		b.WriteString(value.Display(v))
	}
	return Output{Kind: KindLegacy, Value: b.String()}
}
