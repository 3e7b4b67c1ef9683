package agenda

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RuleKind discriminates the recurrence variants.
type RuleKind int

const (
	// RuleNone indicates the booking does not repeat.
	RuleNone RuleKind = iota
	// RuleNamed indicates one of the fixed keyword frequencies.
	RuleNamed
	// RuleCustom indicates a user-defined interval/unit/days/end rule.
	RuleCustom
)

// Frequency enumerates the named repeat patterns.
type Frequency int

const (
	FreqDaily Frequency = iota
	FreqWeekly
	FreqMonthly
	FreqYearly
	FreqWeekdays
)

// Unit enumerates the step units of a custom rule.
type Unit int

const (
	UnitDay Unit = iota
	UnitWeek
	UnitMonth
	UnitYear
)

// EndType enumerates the termination conditions of a custom rule.
type EndType int

const (
	EndNever EndType = iota
	EndOnDate
	EndAfterCount
)

// CustomRule is a user-defined repeat pattern.
type CustomRule struct {
	Interval int
	Unit     Unit
	// Days holds the selected weekdays; required when Unit is UnitWeek.
	Days     []time.Weekday
	EndType  EndType
	// EndDate is the "YYYY-MM-DD" termination date when EndType is EndOnDate.
	EndDate  string
	EndCount int
}

// Rule is the tagged recurrence specification stored on a booking.
type Rule struct {
	Kind      RuleKind
	Frequency Frequency
	Custom    *CustomRule
}

// NoRecurrence is the default rule for one-off bookings.
var NoRecurrence = Rule{Kind: RuleNone}

var frequencyKeywords = map[string]Frequency{
	"daily":    FreqDaily,
	"weekly":   FreqWeekly,
	"monthly":  FreqMonthly,
	"yearly":   FreqYearly,
	"weekdays": FreqWeekdays,
}

var frequencyNames = map[Frequency]string{
	FreqDaily:    "daily",
	FreqWeekly:   "weekly",
	FreqMonthly:  "monthly",
	FreqYearly:   "yearly",
	FreqWeekdays: "weekdays",
}

var unitCodes = map[string]Unit{
	"day":   UnitDay,
	"week":  UnitWeek,
	"month": UnitMonth,
	"year":  UnitYear,
}

var unitNames = map[Unit]string{
	UnitDay:   "day",
	UnitWeek:  "week",
	UnitMonth: "month",
	UnitYear:  "year",
}

var endTypeCodes = map[string]EndType{
	"never":      EndNever,
	"onDate":     EndOnDate,
	"afterCount": EndAfterCount,
}

var endTypeNames = map[EndType]string{
	EndNever:      "never",
	EndOnDate:     "onDate",
	EndAfterCount: "afterCount",
}

// String returns the wire keyword of the frequency.
func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("frequency(%d)", int(f))
}

// String returns the wire code of the unit.
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

type customPayload struct {
	Interval int    `json:"interval"`
	Unit     string `json:"unit"`
	Days     []int  `json:"days"`
	EndType  string `json:"endType"`
	EndDate  string `json:"endDate,omitempty"`
	EndCount int    `json:"endCount,omitempty"`
}

// ParseRecurrence decodes a stored recurrence value for display purposes.
// Unparseable custom payloads fall back to NoRecurrence so a corrupt row
// cannot break a calendar render; write paths must use DecodeRecurrence
// instead so corruption is rejected before it is stored.
func ParseRecurrence(raw *string) Rule {
	if raw == nil {
		return NoRecurrence
	}
	rule, err := DecodeRecurrence(*raw)
	if err != nil {
		return NoRecurrence
	}
	return rule
}

// DecodeRecurrence decodes a recurrence value, surfacing
// ErrInvalidRecurrencePayload when a custom payload cannot be understood.
func DecodeRecurrence(raw string) (Rule, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "none" {
		return NoRecurrence, nil
	}
	if freq, ok := frequencyKeywords[trimmed]; ok {
		return Rule{Kind: RuleNamed, Frequency: freq}, nil
	}

	var payload customPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return Rule{}, fmt.Errorf("%w: %v", ErrInvalidRecurrencePayload, err)
	}

	unit, ok := unitCodes[payload.Unit]
	if !ok {
		return Rule{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidRecurrencePayload, payload.Unit)
	}
	if payload.Interval < 1 {
		return Rule{}, fmt.Errorf("%w: interval %d out of range", ErrInvalidRecurrencePayload, payload.Interval)
	}
	endType := EndNever
	if payload.EndType != "" {
		endType, ok = endTypeCodes[payload.EndType]
		if !ok {
			return Rule{}, fmt.Errorf("%w: unknown end type %q", ErrInvalidRecurrencePayload, payload.EndType)
		}
	}
	days := make([]time.Weekday, 0, len(payload.Days))
	for _, d := range payload.Days {
		if d < 0 || d > 6 {
			return Rule{}, fmt.Errorf("%w: weekday %d out of range", ErrInvalidRecurrencePayload, d)
		}
		days = append(days, time.Weekday(d))
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	if payload.EndDate != "" {
		if _, err := ParseDate(payload.EndDate); err != nil {
			return Rule{}, fmt.Errorf("%w: end date %q", ErrInvalidRecurrencePayload, payload.EndDate)
		}
	}

	return Rule{Kind: RuleCustom, Custom: &CustomRule{
		Interval: payload.Interval,
		Unit:     unit,
		Days:     days,
		EndType:  endType,
		EndDate:  payload.EndDate,
		EndCount: payload.EndCount,
	}}, nil
}

// SerializeRecurrence encodes a rule back into its stored string form.
func SerializeRecurrence(rule Rule) string {
	switch rule.Kind {
	case RuleNamed:
		return frequencyNames[rule.Frequency]
	case RuleCustom:
		if rule.Custom == nil {
			return "none"
		}
		payload := customPayload{
			Interval: rule.Custom.Interval,
			Unit:     unitNames[rule.Custom.Unit],
			Days:     make([]int, 0, len(rule.Custom.Days)),
			EndType:  endTypeNames[rule.Custom.EndType],
			EndDate:  rule.Custom.EndDate,
			EndCount: rule.Custom.EndCount,
		}
		for _, d := range rule.Custom.Days {
			payload.Days = append(payload.Days, int(d))
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "none"
		}
		return string(encoded)
	default:
		return "none"
	}
}

// Validate checks the invariants of a custom rule. Named rules and
// NoRecurrence are always valid.
func (r Rule) Validate() error {
	if r.Kind != RuleCustom {
		return nil
	}
	c := r.Custom
	if c == nil || c.Interval < 1 {
		return ErrInvalidRecurrencePayload
	}
	if c.Unit == UnitWeek && len(c.Days) == 0 {
		return ErrRecurrenceDaysRequired
	}
	if c.EndType == EndOnDate && c.EndDate == "" {
		return ErrRecurrenceEndDateRequired
	}
	if c.EndType == EndAfterCount && c.EndCount < 1 {
		return ErrRecurrenceEndCountInvalid
	}
	return nil
}

// ParseDate parses a calendar date in the stored "YYYY-MM-DD" form.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// FormatDate renders a calendar date in the stored "YYYY-MM-DD" form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
