package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
)

var bookingCounter uint64

var referenceTime = time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// BookingOption configures a generated booking fixture.
type BookingOption func(*application.Booking)

// NewBookingFixture returns a deterministic booking with optional overrides.
// Defaults: a confirmed half-hour visit on the reference date.
func NewBookingFixture(opts ...BookingOption) application.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	booking := application.Booking{
		ID:        fmt.Sprintf("booking-%03d", idx),
		Name:      fmt.Sprintf("Visita %03d", idx),
		Date:      agenda.FormatDate(referenceTime),
		TimeSlots: []string{"10:00-10:30"},
		Status:    agenda.StatusConfirmed,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithID overrides the generated identifier.
func WithID(id string) BookingOption {
	return func(b *application.Booking) { b.ID = id }
}

// WithDate overrides the anchor date.
func WithDate(date string) BookingOption {
	return func(b *application.Booking) { b.Date = date }
}

// WithSlots overrides the raw slot codes.
func WithSlots(slots ...string) BookingOption {
	return func(b *application.Booking) { b.TimeSlots = slots }
}

// WithStatus overrides the booking status.
func WithStatus(status agenda.Status) BookingOption {
	return func(b *application.Booking) { b.Status = status }
}

// WithRecurring sets the serialized recurrence value.
func WithRecurring(raw string) BookingOption {
	return func(b *application.Booking) { b.Recurring = &raw }
}
