package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/agenda-console/internal/agenda"
)

// CalendarService derives the rendering collaborator's data from stored
// bookings: per-day aggregates for badges, and the day panel detail. Derived
// aggregates are cached; any booking mutation or external change event
// invalidates the cache.
type CalendarService struct {
	bookings  BookingRepository
	catalogue []string
	locale    agenda.Locale
	cache     *lru.Cache[string, agenda.DayAggregates]
	now       func() time.Time
	logger    *slog.Logger
}

// NewCalendarService wires the calendar read side. cacheSize <= 0 disables
// caching.
func NewCalendarService(bookings BookingRepository, catalogue []string, locale agenda.Locale, cacheSize int, now func() time.Time, logger *slog.Logger) (*CalendarService, error) {
	if now == nil {
		now = time.Now
	}
	if locale == "" {
		locale = agenda.LocaleES
	}

	var cache *lru.Cache[string, agenda.DayAggregates]
	if cacheSize > 0 {
		var err error
		cache, err = lru.New[string, agenda.DayAggregates](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("aggregate cache: %w", err)
		}
	}

	return &CalendarService{
		bookings:  bookings,
		catalogue: catalogue,
		locale:    locale,
		cache:     cache,
		now:       now,
		logger:    defaultLogger(logger),
	}, nil
}

// DayAggregates returns the per-day status counts for the inclusive range.
// Recurring templates contribute only to their stored anchor date; the
// calendar never expands occurrences.
func (s *CalendarService) DayAggregates(ctx context.Context, from, to string) (agenda.DayAggregates, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "calendar", "day_aggregates", "from", from, "to", to)

	vErr := &ValidationError{}
	validateDateField(vErr, "from", from, true)
	validateDateField(vErr, "to", to, true)
	if vErr.HasErrors() {
		return nil, vErr
	}

	key := from + ".." + to
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			logger.DebugContext(ctx, "aggregate cache hit")
			return cached, nil
		}
	}

	bookings, err := s.bookings.ListBookings(ctx, BookingRepositoryFilter{From: from, To: to})
	if err != nil {
		return nil, mapRepoError(err)
	}

	aggregates := agenda.BuildDayAggregates(toEntries(bookings))
	if s.cache != nil {
		s.cache.Add(key, aggregates)
	}
	return aggregates, nil
}

// DayDetail assembles the day panel: occupied slots, the fully-booked flag
// against the configured catalogue, and rendered cards for every booking on
// the date.
func (s *CalendarService) DayDetail(ctx context.Context, date string) (DayDetail, error) {
	if s == nil || s.bookings == nil {
		return DayDetail{}, fmt.Errorf("booking repository not configured")
	}

	vErr := &ValidationError{}
	validateDateField(vErr, "date", date, true)
	if vErr.HasErrors() {
		return DayDetail{}, vErr
	}

	bookings, err := s.bookings.ListBookings(ctx, BookingRepositoryFilter{From: date, To: date})
	if err != nil {
		return DayDetail{}, mapRepoError(err)
	}

	entries := toEntries(bookings)
	detail := DayDetail{
		Date:          date,
		OccupiedSlots: agenda.OccupiedSlots(entries, date).Sorted(),
		FullyBooked:   agenda.IsDateFullyBooked(entries, date, s.catalogue),
		Cards:         make([]BookingCard, 0, len(bookings)),
	}

	// All-day bookings lead the panel, then ascending start time.
	sort.Slice(bookings, func(i, j int) bool {
		ki, kj := windowSortKey(bookings[i].Window()), windowSortKey(bookings[j].Window())
		if ki == kj {
			return bookings[i].ID < bookings[j].ID
		}
		return ki < kj
	})

	anchors := make(map[string]time.Time, len(bookings))
	for _, booking := range bookings {
		anchor, ok := anchors[booking.Date]
		if !ok {
			anchor, _ = agenda.ParseDate(booking.Date)
			anchors[booking.Date] = anchor
		}
		detail.Cards = append(detail.Cards, BookingCard{
			ID:              booking.ID,
			Name:            booking.Name,
			Status:          booking.Status,
			Message:         booking.Message,
			TimeLabel:       booking.Window().Label(s.locale),
			RecurrenceLabel: agenda.Describe(booking.Rule(), anchor, s.locale),
		})
	}

	return detail, nil
}

// Invalidate drops every cached aggregate. Called after local mutations and
// from the change-event listener.
func (s *CalendarService) Invalidate() {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Purge()
}

// WarmCurrentMonth precomputes the aggregates the calendar grid opens on.
// Used by the periodic refresh job.
func (s *CalendarService) WarmCurrentMonth(ctx context.Context) error {
	if s == nil {
		return nil
	}
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	_, err := s.DayAggregates(ctx, agenda.FormatDate(first), agenda.FormatDate(last))
	return err
}

func windowSortKey(w agenda.TimeWindow) int {
	if w.AllDay {
		return -1
	}
	return w.Start.Minutes()
}

func toEntries(bookings []Booking) []agenda.Entry {
	entries := make([]agenda.Entry, 0, len(bookings))
	for _, booking := range bookings {
		entries = append(entries, booking.Entry())
	}
	return entries
}
