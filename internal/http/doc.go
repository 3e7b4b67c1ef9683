// Package http provides the console's HTTP handlers and middleware.
//
// The router exposes the following endpoints:
//   - GET /bookings, POST /bookings, GET /bookings/{id}, PUT /bookings/{id},
//     DELETE /bookings/{id}: booking management exchanging the `bookingDTO`
//     payload defined in booking_handler.go. Reads include the derived
//     `time_label` and `recurrence_label` strings used by event cards.
//   - GET /calendar/aggregates?from=YYYY-MM-DD&to=YYYY-MM-DD: per-day status
//     counts for calendar badges.
//   - GET /calendar/days/{date}: occupied slots, the fully-booked flag and
//     rendered cards for the day panel.
//   - GET /calendar/export.ics: an iCalendar feed of every stored booking;
//     recurrence rules are attached as RRULE properties, occurrences are
//     never materialized server side.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth. Error messages are
// localized to Spanish by the responder.
package http
