// Package ics renders the stored bookings as an iCalendar feed so the agenda
// can be subscribed to from external calendar clients.
package ics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
)

type bookingLister interface {
	List(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
}

// Exporter serializes every stored booking into a VCALENDAR document. One
// VEVENT is emitted per booking; recurring bookings carry an RRULE so clients
// render the repetition themselves.
type Exporter struct {
	bookings bookingLister
	now      func() time.Time
	logger   *slog.Logger
}

// NewExporter wires the exporter. now may be nil, in which case time.Now is used.
func NewExporter(bookings bookingLister, now func() time.Time, logger *slog.Logger) *Exporter {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{bookings: bookings, now: now, logger: logger}
}

// Export renders the feed for every stored booking.
func (e *Exporter) Export(ctx context.Context) ([]byte, error) {
	bookings, err := e.bookings.List(ctx, application.ListBookingsParams{})
	if err != nil {
		return nil, fmt.Errorf("list bookings for export: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//agenda-console//ES")

	stamp := e.now().UTC()
	for _, booking := range bookings {
		if err := e.addEvent(cal, booking, stamp); err != nil {
			e.logger.WarnContext(ctx, "booking skipped in export", "booking_id", booking.ID, "error", err)
		}
	}

	return []byte(cal.Serialize()), nil
}

func (e *Exporter) addEvent(cal *ical.Calendar, booking application.Booking, stamp time.Time) error {
	anchor, err := agenda.ParseDate(booking.Date)
	if err != nil {
		return fmt.Errorf("parse booking date: %w", err)
	}

	event := cal.AddEvent(booking.ID)
	event.SetDtStampTime(stamp)
	event.SetSummary(booking.Name)
	if booking.Message != "" {
		event.SetDescription(booking.Message)
	}
	event.SetStatus(statusProperty(booking.Status))

	window := booking.Window()
	if window.AllDay {
		event.SetAllDayStartAt(anchor)
		event.SetAllDayEndAt(anchor.AddDate(0, 0, 1))
	} else {
		start := anchor.Add(time.Duration(window.Start.Minutes()) * time.Minute)
		end := anchor.Add(time.Duration(window.End.Minutes()) * time.Minute)
		event.SetStartAt(start)
		event.SetEndAt(end)
	}

	rule := booking.Rule()
	if rule.Kind == agenda.RuleNone {
		return nil
	}

	value, err := rruleValue(rule, anchor)
	if err != nil {
		return fmt.Errorf("build rrule: %w", err)
	}
	if value != "" {
		event.AddRrule(value)
	}
	return nil
}

// rruleValue maps a recurrence rule onto an RFC 5545 RRULE value. The anchor
// date supplies the weekday for weekly rules and the nth weekday for monthly
// ones, mirroring how the rule is described to users.
func rruleValue(rule agenda.Rule, anchor time.Time) (string, error) {
	option := rrule.ROption{Dtstart: anchor}

	switch rule.Kind {
	case agenda.RuleNamed:
		switch rule.Frequency {
		case agenda.FreqDaily:
			option.Freq = rrule.DAILY
		case agenda.FreqWeekdays:
			option.Freq = rrule.WEEKLY
			option.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
		case agenda.FreqWeekly:
			option.Freq = rrule.WEEKLY
			option.Byweekday = []rrule.Weekday{rruleWeekday(anchor.Weekday())}
		case agenda.FreqMonthly:
			option.Freq = rrule.MONTHLY
			nth := (anchor.Day()-1)/7 + 1
			weekday := rruleWeekday(anchor.Weekday())
			option.Byweekday = []rrule.Weekday{weekday.Nth(nth)}
		case agenda.FreqYearly:
			option.Freq = rrule.YEARLY
		default:
			return "", fmt.Errorf("unsupported frequency %s", rule.Frequency)
		}
	case agenda.RuleCustom:
		custom := rule.Custom
		if custom == nil {
			return "", fmt.Errorf("custom rule without payload")
		}
		switch custom.Unit {
		case agenda.UnitDay:
			option.Freq = rrule.DAILY
		case agenda.UnitWeek:
			option.Freq = rrule.WEEKLY
		case agenda.UnitMonth:
			option.Freq = rrule.MONTHLY
		case agenda.UnitYear:
			option.Freq = rrule.YEARLY
		default:
			return "", fmt.Errorf("unsupported unit %s", custom.Unit)
		}
		option.Interval = custom.Interval
		for _, day := range custom.Days {
			option.Byweekday = append(option.Byweekday, rruleWeekday(day))
		}
		switch custom.EndType {
		case agenda.EndOnDate:
			until, err := agenda.ParseDate(custom.EndDate)
			if err != nil {
				return "", fmt.Errorf("parse recurrence end date: %w", err)
			}
			option.Until = until.AddDate(0, 0, 1).Add(-time.Second)
		case agenda.EndAfterCount:
			option.Count = custom.EndCount
		}
	default:
		return "", nil
	}

	r, err := rrule.NewRRule(option)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

func rruleWeekday(day time.Weekday) rrule.Weekday {
	switch day {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

func statusProperty(status agenda.Status) ical.ObjectStatus {
	switch status {
	case agenda.StatusCancelled:
		return ical.ObjectStatusCancelled
	case agenda.StatusPending:
		return ical.ObjectStatusTentative
	default:
		return ical.ObjectStatusConfirmed
	}
}
