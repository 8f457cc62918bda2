package evalctx

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formexpr/pkg/value"
)

func baseHelpers(ctx EvalContext) map[string]any {
	return map[string]any{
		"$get": func(path string) any {
			v, _ := ctx.Lookup(path)
			return v
		},
		"$number": func(v any) float64 {
			n, _ := value.Number(v)
			return n
		},
		"$json": func(v any) string {
			data, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(data)
		},
	}
}

func scriptHelpers(ctx EvalContext) map[string]any {
	return map[string]any{
		"$fmt": func(name string) string {
			v, _ := ctx.Lookup(name)
			if _, ok := v.(string); !ok {
				if t, isTime := value.Time(v); isTime {
					return t.Format(value.DefaultDateLayout)
				}
			}
			return value.Display(v)
		},
		"$date": func(v any, layout string) string {
			return value.FormatDate(v, layout)
		},
		"$upper": func(v any) string {
			return strings.ToUpper(value.Display(v))
		},
		"$lower": func(v any) string {
			return strings.ToLower(value.Display(v))
		},
		"$join": func(list []any, sep string) string {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, value.Display(item))
			}
			return strings.Join(parts, sep)
		},
	}
}
