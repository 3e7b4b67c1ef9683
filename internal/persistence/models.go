package persistence

import "time"

// Booking is the stored shape of one agenda entry. TimeSlots keeps the raw
// slot codes; Recurring keeps the serialized rule (NULL for one-off rows).
type Booking struct {
	ID        string
	Name      string
	Date      string
	TimeSlots []string
	Status    string
	Message   string
	Recurring *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingFilter narrows listing queries. From/To are inclusive "YYYY-MM-DD"
// bounds; empty fields are ignored.
type BookingFilter struct {
	From   string
	To     string
	Status string
}
