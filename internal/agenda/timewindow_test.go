package agenda

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseTimeWindow(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
		want TimeWindow
	}{
		{name: "empty list is all day", raw: nil, want: AllDay()},
		{name: "zero slot is all day", raw: []string{"00:00"}, want: AllDay()},
		{name: "full range is all day", raw: []string{"00:00-23:59"}, want: AllDay()},
		{
			name: "single range entry",
			raw:  []string{"09:00-10:30"},
			want: TimeWindow{Start: TimeOfDay{9, 0}, End: TimeOfDay{10, 30}},
		},
		{
			name: "single discrete slot spans thirty minutes",
			raw:  []string{"09:00"},
			want: TimeWindow{Start: TimeOfDay{9, 0}, End: TimeOfDay{9, 30}},
		},
		{
			name: "discrete slots collapse to min..max+30",
			raw:  []string{"09:30", "09:00", "10:00"},
			want: TimeWindow{Start: TimeOfDay{9, 0}, End: TimeOfDay{10, 30}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimeWindow(tc.raw)
			if err != nil {
				t.Fatalf("ParseTimeWindow(%v) returned error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTimeWindow(%v) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseTimeWindowErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
	}{
		{name: "garbage entry", raw: []string{"morning"}},
		{name: "hour out of range", raw: []string{"25:00"}},
		{name: "minute out of range", raw: []string{"09:61"}},
		{name: "missing padding", raw: []string{"9:00"}},
		{name: "inverted range", raw: []string{"10:00-09:00"}},
		{name: "zero length range", raw: []string{"09:00-09:00"}},
		{name: "range entry in discrete list", raw: []string{"09:00-09:30", "10:00"}},
		{name: "last slot would cross midnight", raw: []string{"23:30"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTimeWindow(tc.raw); !errors.Is(err, ErrInvalidTimeFormat) {
				t.Fatalf("ParseTimeWindow(%v) error = %v, want ErrInvalidTimeFormat", tc.raw, err)
			}
		})
	}
}

func TestFormatTimeWindowRoundTrip(t *testing.T) {
	windows := []TimeWindow{
		AllDay(),
		{Start: TimeOfDay{8, 0}, End: TimeOfDay{9, 0}},
		{Start: TimeOfDay{9, 0}, End: TimeOfDay{10, 30}},
		{Start: TimeOfDay{15, 30}, End: TimeOfDay{16, 0}},
	}

	for _, w := range windows {
		raw := FormatTimeWindow(w)
		parsed, err := ParseTimeWindow(raw)
		if err != nil {
			t.Fatalf("ParseTimeWindow(FormatTimeWindow(%+v)) returned error: %v", w, err)
		}
		if parsed != w {
			t.Fatalf("round trip of %+v via %v produced %+v", w, raw, parsed)
		}
	}
}

func TestDiscreteListNormalizesToSameRange(t *testing.T) {
	// The discrete list form is lossy: parse must land on the same Range
	// value as its normalized serialization, not reproduce the slot list.
	discrete, err := ParseTimeWindow([]string{"09:00", "09:30"})
	if err != nil {
		t.Fatalf("discrete parse failed: %v", err)
	}
	again, err := ParseTimeWindow(FormatTimeWindow(discrete))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if again != discrete {
		t.Fatalf("normalized reparse = %+v, want %+v", again, discrete)
	}
	if got := FormatTimeWindow(discrete); !reflect.DeepEqual(got, []string{"09:00-10:00"}) {
		t.Fatalf("FormatTimeWindow = %v, want [09:00-10:00]", got)
	}
}

func TestTimeWindowLabel(t *testing.T) {
	cases := []struct {
		name   string
		window TimeWindow
		want   string
	}{
		{name: "all day", window: AllDay(), want: "Todo el día"},
		{
			name:   "leading zero stripped",
			window: TimeWindow{Start: TimeOfDay{8, 0}, End: TimeOfDay{9, 30}},
			want:   "8:00 a 9:30",
		},
		{
			name:   "afternoon keeps two digits",
			window: TimeWindow{Start: TimeOfDay{14, 0}, End: TimeOfDay{15, 30}},
			want:   "14:00 a 15:30",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Label(LocaleES); got != tc.want {
				t.Fatalf("Label = %q, want %q", got, tc.want)
			}
		})
	}
}
