package agenda

import (
	"fmt"
	"sort"
)

// Status is the lifecycle state of a booking as stored.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusReminder  Status = "reminder"
)

// KnownStatus reports whether s is one of the four stored literals.
func KnownStatus(s Status) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusReminder:
		return true
	}
	return false
}

// Entry is the availability view of one stored booking: its anchor date, the
// raw slot codes exactly as stored, and its status. Recurring templates are
// represented by their anchor row only; the index never expands occurrences.
type Entry struct {
	Date   string
	Slots  []string
	Status Status
}

// StatusCounts maps a status to the number of bookings holding it on a day.
type StatusCounts map[Status]int

// DayAggregates maps "YYYY-MM-DD" dates to their per-status booking counts.
type DayAggregates map[string]StatusCounts

// SlotSet is a set of raw slot codes.
type SlotSet map[string]struct{}

// Contains reports whether the slot code is in the set.
func (s SlotSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Sorted returns the slot codes in ascending order.
func (s SlotSet) Sorted() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// BuildDayAggregates groups entries by their stored date and counts statuses.
// Every status counts here, including cancelled; badges show what the day
// holds, occupancy is a separate question.
func BuildDayAggregates(entries []Entry) DayAggregates {
	aggregates := make(DayAggregates)
	for _, entry := range entries {
		counts, ok := aggregates[entry.Date]
		if !ok {
			counts = make(StatusCounts)
			aggregates[entry.Date] = counts
		}
		counts[entry.Status]++
	}
	return aggregates
}

// OccupiedSlots returns the union of raw slot codes used on the date by
// bookings that hold a slot: confirmed, pending and reminder entries.
// Cancelled bookings never occupy.
func OccupiedSlots(entries []Entry, date string) SlotSet {
	occupied := make(SlotSet)
	for _, entry := range entries {
		if entry.Date != date || !occupies(entry.Status) {
			continue
		}
		for _, code := range entry.Slots {
			occupied[code] = struct{}{}
		}
	}
	return occupied
}

// IsDateFullyBooked reports whether every offerable slot in the catalogue is
// occupied on the date. An empty catalogue is never fully booked.
func IsDateFullyBooked(entries []Entry, date string, catalogue []string) bool {
	if len(catalogue) == 0 {
		return false
	}
	occupied := OccupiedSlots(entries, date)
	for _, code := range catalogue {
		if !occupied.Contains(code) {
			return false
		}
	}
	return true
}

// SlotCatalogue enumerates the offerable slot codes of a business day from
// its opening time (inclusive) to its closing time (exclusive) at the given
// step. Codes use the discrete "HH:MM" form.
func SlotCatalogue(open, close TimeOfDay, stepMinutes int) ([]string, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("agenda: slot step must be positive, got %d", stepMinutes)
	}
	if close.Minutes() <= open.Minutes() {
		return nil, fmt.Errorf("agenda: closing time %s is not after opening time %s", close, open)
	}
	codes := make([]string, 0, (close.Minutes()-open.Minutes())/stepMinutes)
	for m := open.Minutes(); m < close.Minutes(); m += stepMinutes {
		codes = append(codes, TimeOfDay{Hour: m / 60, Minute: m % 60}.String())
	}
	return codes, nil
}

func occupies(status Status) bool {
	switch status {
	case StatusConfirmed, StatusPending, StatusReminder:
		return true
	}
	return false
}
