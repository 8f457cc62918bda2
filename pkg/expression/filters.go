package expression

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formexpr/pkg/value"
)

// Filter transforms a placeholder value, as in `{{ amount | number:2 }}`.
type Filter func(input any, args ...any) (any, error)

// DefaultFilters returns a fresh copy of the built-in filter set.
func DefaultFilters() map[string]Filter {
	return map[string]Filter{
		"uppercase": filterUpper,
		"lowercase": filterLower,
		"number":    filterNumber,
		"date":      filterDate,
		"json":      filterJSON,
		"default":   filterDefault,
		"truncate":  filterTruncate,
	}
}

func filterUpper(input any, _ ...any) (any, error) {
	return strings.ToUpper(value.Display(input)), nil
}

func filterLower(input any, _ ...any) (any, error) {
	return strings.ToLower(value.Display(input)), nil
}

func filterNumber(input any, args ...any) (any, error) {
	if input == nil {
		return "", nil
	}
	digits := -1
	if len(args) > 0 {
		n, ok := value.Number(args[0])
		if !ok || n < 0 {
			return nil, fmt.Errorf("number: invalid digits %v", args[0])
		}
		digits = int(n)
	}
	return value.FormatNumber(input, digits), nil
}

func filterDate(input any, args ...any) (any, error) {
	if input == nil {
		return "", nil
	}
	layout := ""
	if len(args) > 0 {
		layout = value.Display(args[0])
	}
	return value.FormatDate(input, layout), nil
}

func filterJSON(input any, _ ...any) (any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return string(data), nil
}

func filterDefault(input any, args ...any) (any, error) {
	if value.Truthy(input) || len(args) == 0 {
		return input, nil
	}
	return args[0], nil
}

func filterTruncate(input any, args ...any) (any, error) {
	text := value.Display(input)
	if len(args) == 0 {
		return text, nil
	}
	n, ok := value.Number(args[0])
	if !ok || n < 0 {
		return nil, fmt.Errorf("truncate: invalid length %v", args[0])
	}
	limit := int(n)
	if utf8.RuneCountInString(text) <= limit {
		return text, nil
	}
	runes := []rune(text)
	return string(runes[:limit]) + "...", nil
}
