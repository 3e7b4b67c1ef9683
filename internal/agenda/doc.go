// Package agenda implements the booking engine: time-window normalization,
// recurrence rules with their human descriptions, and per-day availability
// aggregation for the calendar grid.
//
// Everything in this package is a pure function of in-memory data. Callers
// fetch booking rows, convert them to Entry values and ask the engine to
// describe or aggregate them; the engine performs no I/O and keeps no state.
package agenda
