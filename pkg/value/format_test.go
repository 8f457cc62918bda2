package value

import (
	"testing"
	"time"
)

func TestTimeAcceptsNumericMillis(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ms := want.UnixMilli()

	for _, in := range []any{ms, float64(ms), int(ms), uint64(ms)} {
		got, ok := Time(in)
		if !ok || !got.Equal(want) {
			t.Fatalf("Time(%T %v) = %v %v, want %v", in, in, got, ok, want)
		}
	}

	got, ok := Time(float64(ms) + 250)
	if !ok || !got.Equal(want.Add(250*time.Millisecond)) {
		t.Fatalf("expected fractional second to survive, got %v", got)
	}
	if _, ok := Time(true); ok {
		t.Fatalf("expected bool to be rejected")
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     any
		layout string
		want   string
	}{
		{in: "2024-03-01T12:00:00Z", want: "2024-03-01"},
		{in: float64(1709294400000), layout: "02 Jan 2006", want: "01 Mar 2024"},
		{in: 1709294400000, want: "2024-03-01"},
		{in: "not a date", want: "not a date"},
		{in: nil, want: ""},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.in, tc.layout); got != tc.want {
			t.Fatalf("FormatDate(%#v, %q) = %q, want %q", tc.in, tc.layout, got, tc.want)
		}
	}
}
