package agenda

import (
	"fmt"
	"strings"
)

// slotStepMinutes is the granularity of discrete slot codes ("09:00",
// "09:30", ...). A discrete code occupies the half hour starting at its time.
const slotStepMinutes = 30

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time within a single business day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String renders the zero-padded "HH:MM" wire form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeWindow is either the all-day sentinel or a start/end range within one
// day. The zero value is not valid; construct via AllDay, NewRange or
// ParseTimeWindow.
type TimeWindow struct {
	AllDay bool
	Start  TimeOfDay
	End    TimeOfDay
}

// AllDay returns the whole-day sentinel window.
func AllDay() TimeWindow {
	return TimeWindow{AllDay: true}
}

// NewRange builds a range window. End must be strictly after start.
func NewRange(start, end TimeOfDay) (TimeWindow, error) {
	if end.Minutes() <= start.Minutes() {
		return TimeWindow{}, ErrInvalidTimeFormat
	}
	return TimeWindow{Start: start, End: end}, nil
}

// ParseTimeWindow normalizes the stored slot-string list into a window.
//
// Recognized shapes:
//   - empty list, ["00:00"] or ["00:00-23:59"]: the all-day sentinel
//   - a single "HH:MM-HH:MM" entry: the range parsed from its halves
//   - one or more discrete "HH:MM" codes: min(code)..max(code)+30m
//
// A discrete list whose derived end would reach midnight is rejected; stored
// slot lists are bounded within a single business day.
func ParseTimeWindow(rawSlots []string) (TimeWindow, error) {
	if len(rawSlots) == 0 {
		return AllDay(), nil
	}

	if len(rawSlots) == 1 {
		entry := strings.TrimSpace(rawSlots[0])
		if entry == "00:00" || entry == "00:00-23:59" {
			return AllDay(), nil
		}
		if strings.Contains(entry, "-") {
			return parseRangeEntry(entry)
		}
	}

	var (
		minStart TimeOfDay
		maxStart TimeOfDay
	)
	for i, raw := range rawSlots {
		entry := strings.TrimSpace(raw)
		if strings.Contains(entry, "-") {
			// Range entries are only valid alone.
			return TimeWindow{}, ErrInvalidTimeFormat
		}
		t, err := ParseTimeOfDay(entry)
		if err != nil {
			return TimeWindow{}, err
		}
		if i == 0 || t.Minutes() < minStart.Minutes() {
			minStart = t
		}
		if i == 0 || t.Minutes() > maxStart.Minutes() {
			maxStart = t
		}
	}

	endMinutes := maxStart.Minutes() + slotStepMinutes
	if endMinutes >= minutesPerDay {
		return TimeWindow{}, ErrInvalidTimeFormat
	}
	return NewRange(minStart, TimeOfDay{Hour: endMinutes / 60, Minute: endMinutes % 60})
}

// FormatTimeWindow renders the window back into its stored slot-list form.
// Discrete lists are not reproduced; every range serializes to the single
// "HH:MM-HH:MM" entry.
func FormatTimeWindow(w TimeWindow) []string {
	if w.AllDay {
		return []string{"00:00-23:59"}
	}
	return []string{w.Start.String() + "-" + w.End.String()}
}

// Label renders the window for event cards: "Todo el día" for the all-day
// sentinel, otherwise "{start} a {end}" with the leading zero stripped from
// each hour component.
func (w TimeWindow) Label(locale Locale) string {
	if w.AllDay {
		return lookup(locale).allDay
	}
	return fmt.Sprintf("%d:%02d a %d:%02d", w.Start.Hour, w.Start.Minute, w.End.Hour, w.End.Minute)
}

// ParseTimeOfDay parses a single zero-padded "HH:MM" code.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return TimeOfDay{}, ErrInvalidTimeFormat
	}
	hour, ok1 := parseTwoDigits(raw[:2])
	minute, ok2 := parseTwoDigits(raw[3:])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeFormat
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseRangeEntry(entry string) (TimeWindow, error) {
	parts := strings.SplitN(entry, "-", 2)
	if len(parts) != 2 {
		return TimeWindow{}, ErrInvalidTimeFormat
	}
	start, err := ParseTimeOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := ParseTimeOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeWindow{}, err
	}
	return NewRange(start, end)
}

func parseTwoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
