package agenda

import "errors"

// ErrInvalidTimeFormat indicates a stored slot string could not be parsed
// into a time window.
var ErrInvalidTimeFormat = errors.New("agenda: invalid time format")

// ErrInvalidRecurrencePayload indicates a custom recurrence payload could not
// be decoded.
var ErrInvalidRecurrencePayload = errors.New("agenda: invalid recurrence payload")

// ErrRecurrenceDaysRequired indicates a weekly custom rule has no selected weekdays.
var ErrRecurrenceDaysRequired = errors.New("agenda: recurrence days required")

// ErrRecurrenceEndDateRequired indicates an on-date termination is missing its date.
var ErrRecurrenceEndDateRequired = errors.New("agenda: recurrence end date required")

// ErrRecurrenceEndCountInvalid indicates an after-count termination has a
// non-positive count.
var ErrRecurrenceEndCountInvalid = errors.New("agenda: recurrence end count invalid")
