package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/persistence"
)

// BookingRepository captures the persistence interactions needed by the service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListBookings(ctx context.Context, filter BookingRepositoryFilter) ([]Booking, error)
}

// BookingRepositoryFilter narrows queries issued to the booking repository.
// From/To are inclusive "YYYY-MM-DD" bounds; empty means unbounded.
type BookingRepositoryFilter struct {
	From   string
	To     string
	Status agenda.Status
}

// CacheInvalidator is notified whenever stored bookings change.
type CacheInvalidator interface {
	Invalidate()
}

// BookingService orchestrates validation and persistence for booking operations.
type BookingService struct {
	bookings    BookingRepository
	cache       CacheInvalidator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, cache CacheInvalidator, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, cache, idGenerator, now, nil)
}

// NewBookingServiceWithLogger additionally attaches a base logger.
func NewBookingServiceWithLogger(bookings BookingRepository, cache CacheInvalidator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		cache:       cache,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Create validates the submitted booking before delegating to persistence.
// The recurrence payload goes through the strict decoder here: malformed
// rules are rejected at write time, never silently defaulted.
func (s *BookingService) Create(ctx context.Context, input BookingInput) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "booking", "create")

	vErr := &ValidationError{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr.add("name", "name is required")
	}
	validateDateField(vErr, "date", input.Date, true)
	if _, err := agenda.ParseTimeWindow(input.TimeSlots); err != nil {
		vErr.add("time_slots", "time slots are invalid")
	}
	if !agenda.KnownStatus(input.Status) {
		vErr.add("status", "status is unknown")
	}
	recurring := validateRecurringField(vErr, input.Recurring)

	if vErr.HasErrors() {
		logger.InfoContext(ctx, "booking rejected", "error_kind", ErrorKind(vErr))
		return Booking{}, vErr
	}

	createdAt := s.now()
	booking := Booking{
		ID:        s.idGenerator(),
		Name:      name,
		Date:      input.Date,
		TimeSlots: input.TimeSlots,
		Status:    input.Status,
		Message:   input.Message,
		Recurring: recurring,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	persisted, err := s.bookings.CreateBooking(ctx, booking)
	if err != nil {
		logger.ErrorContext(ctx, "booking create failed", "error", err)
		return Booking{}, mapRepoError(err)
	}

	s.invalidateCache()
	logger.InfoContext(ctx, "booking created", "booking_id", persisted.ID, "date", persisted.Date)
	return persisted, nil
}

// Update applies a partial update; only the supplied fields are validated
// and replaced. Status transitions are deliberately unrestricted.
func (s *BookingService) Update(ctx context.Context, id string, update BookingUpdate) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "booking", "update", "booking_id", id)

	existing, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	updated := existing

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			vErr.add("name", "name is required")
		}
		updated.Name = name
	}
	if update.Date != nil {
		validateDateField(vErr, "date", *update.Date, true)
		updated.Date = *update.Date
	}
	if update.TimeSlots != nil {
		if _, err := agenda.ParseTimeWindow(*update.TimeSlots); err != nil {
			vErr.add("time_slots", "time slots are invalid")
		}
		updated.TimeSlots = *update.TimeSlots
	}
	if update.Status != nil {
		if !agenda.KnownStatus(*update.Status) {
			vErr.add("status", "status is unknown")
		}
		updated.Status = *update.Status
	}
	if update.Message != nil {
		updated.Message = *update.Message
	}
	if update.Recurring != nil {
		updated.Recurring = validateRecurringField(vErr, update.Recurring)
	}

	if vErr.HasErrors() {
		logger.InfoContext(ctx, "booking update rejected", "error_kind", ErrorKind(vErr))
		return Booking{}, vErr
	}

	updated.UpdatedAt = s.now()

	persisted, err := s.bookings.UpdateBooking(ctx, updated)
	if err != nil {
		logger.ErrorContext(ctx, "booking update failed", "error", err)
		return Booking{}, mapRepoError(err)
	}

	s.invalidateCache()
	logger.InfoContext(ctx, "booking updated", "date", persisted.Date)
	return persisted, nil
}

// Get fetches one booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}
	booking, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, mapRepoError(err)
	}
	return booking, nil
}

// Delete removes the stored template row. Recurring bookings have no
// materialized future instances, so there is nothing to cascade.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "booking", "delete", "booking_id", id)

	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.invalidateCache()
	logger.InfoContext(ctx, "booking deleted")
	return nil
}

// List returns bookings matching the optional date range and status filter.
func (s *BookingService) List(ctx context.Context, params ListBookingsParams) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	vErr := &ValidationError{}
	validateDateField(vErr, "from", params.From, false)
	validateDateField(vErr, "to", params.To, false)
	if params.Status != "" && !agenda.KnownStatus(params.Status) {
		vErr.add("status", "status is unknown")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	bookings, err := s.bookings.ListBookings(ctx, BookingRepositoryFilter{
		From:   params.From,
		To:     params.To,
		Status: params.Status,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return bookings, nil
}

func (s *BookingService) invalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func validateDateField(vErr *ValidationError, field, value string, required bool) {
	if value == "" {
		if required {
			vErr.add(field, "date is required")
		}
		return
	}
	if _, err := agenda.ParseDate(value); err != nil {
		vErr.add(field, "date is invalid")
	}
}

// validateRecurringField strictly decodes and validates a submitted
// recurrence value, returning the canonical serialized form to store
// (nil when the rule is none).
func validateRecurringField(vErr *ValidationError, raw *string) *string {
	if raw == nil {
		return nil
	}
	rule, err := agenda.DecodeRecurrence(*raw)
	if err != nil {
		vErr.add("recurring", "recurrence is invalid")
		return nil
	}
	if err := rule.Validate(); err != nil {
		vErr.add("recurring", recurrenceMessage(err))
		return nil
	}
	if rule.Kind == agenda.RuleNone {
		return nil
	}
	serialized := agenda.SerializeRecurrence(rule)
	return &serialized
}

func recurrenceMessage(err error) string {
	switch {
	case errors.Is(err, agenda.ErrRecurrenceDaysRequired):
		return "recurrence days are required"
	case errors.Is(err, agenda.ErrRecurrenceEndDateRequired):
		return "recurrence end date is required"
	case errors.Is(err, agenda.ErrRecurrenceEndCountInvalid):
		return "recurrence end count is invalid"
	default:
		return "recurrence is invalid"
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
