package application

import (
	"time"

	"github.com/example/agenda-console/internal/agenda"
)

// Booking represents a persisted agenda entry. TimeSlots holds the raw slot
// codes exactly as submitted; Recurring holds the serialized recurrence rule
// (nil for one-off bookings).
type Booking struct {
	ID        string
	Name      string
	Date      string
	TimeSlots []string
	Status    agenda.Status
	Message   string
	Recurring *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the normalized time window of the booking. Stored rows have
// already passed validation, so a decode failure degrades to the all-day
// sentinel rather than erroring a read path.
func (b Booking) Window() agenda.TimeWindow {
	window, err := agenda.ParseTimeWindow(b.TimeSlots)
	if err != nil {
		return agenda.AllDay()
	}
	return window
}

// Rule returns the recurrence rule of the booking, lenient per read-path policy.
func (b Booking) Rule() agenda.Rule {
	return agenda.ParseRecurrence(b.Recurring)
}

// Entry converts the booking into the engine's availability view.
func (b Booking) Entry() agenda.Entry {
	return agenda.Entry{Date: b.Date, Slots: b.TimeSlots, Status: b.Status}
}

// BookingInput captures caller provided fields for creating a booking.
type BookingInput struct {
	Name      string
	Date      string
	TimeSlots []string
	Status    agenda.Status
	Message   string
	Recurring *string
}

// BookingUpdate carries a partial update; nil fields are left untouched.
// Recurring distinguishes "absent" (nil) from "cleared" (pointer to "none").
type BookingUpdate struct {
	Name      *string
	Date      *string
	TimeSlots *[]string
	Status    *agenda.Status
	Message   *string
	Recurring *string
}

// ListBookingsParams narrows booking listings.
type ListBookingsParams struct {
	From   string
	To     string
	Status agenda.Status
}

// BookingCard is the rendered detail-panel view of one booking.
type BookingCard struct {
	ID              string
	Name            string
	Status          agenda.Status
	Message         string
	TimeLabel       string
	RecurrenceLabel string
}

// DayDetail is everything the day panel needs for one date.
type DayDetail struct {
	Date          string
	OccupiedSlots []string
	FullyBooked   bool
	Cards         []BookingCard
}
