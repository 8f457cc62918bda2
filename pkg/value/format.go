package value

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
)

// DefaultDateLayout is used when a date format is requested without a layout.
const DefaultDateLayout = "2006-01-02"

// Time reads v as a point in time. Strings are parsed leniently so record
// values in any common wire format work; numbers are epoch milliseconds.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		parsed, err := dateparse.ParseAny(s)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		ms, ok := Number(t)
		if !ok || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, false
		}
		sec := math.Floor(ms / 1000)
		return time.Unix(int64(sec), int64((ms-sec*1000)*float64(time.Millisecond))).UTC(), true
	default:
		return time.Time{}, false
	}
}

// FormatDate renders v with layout. Values that are not dates pass through
// Display unchanged.
func FormatDate(v any, layout string) string {
	if strings.TrimSpace(layout) == "" {
		layout = DefaultDateLayout
	}
	t, ok := Time(v)
	if !ok {
		return Display(v)
	}
	return t.Format(layout)
}

// FormatNumber renders v with thousands separators and a fixed number of
// decimals. A negative digits value keeps the natural precision.
func FormatNumber(v any, digits int) string {
	n, ok := Number(v)
	if !ok {
		return Display(v)
	}
	if digits < 0 {
		return humanize.Commaf(n)
	}
	return humanize.CommafWithDigits(n, digits)
}
