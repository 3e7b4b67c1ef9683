package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
	"github.com/example/agenda-console/internal/config"
	"github.com/example/agenda-console/internal/events"
	httptransport "github.com/example/agenda-console/internal/http"
	"github.com/example/agenda-console/internal/ics"
	"github.com/example/agenda-console/internal/logging"
	"github.com/example/agenda-console/internal/persistence"
	"github.com/example/agenda-console/internal/persistence/sqlite"
)

func main() {
	// Local overrides; the file is optional in every deployment.
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLite.DSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Ping(context.Background()); err != nil {
		logger.Error("storage unreachable", "error", err)
		os.Exit(1)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	catalogue, err := cfg.SlotCatalogue()
	if err != nil {
		logger.Error("failed to derive slot catalogue", "error", err)
		os.Exit(1)
	}

	bookingRepo := newBookingRepositoryAdapter(sqlite.NewBookingRepository(storage))
	now := time.Now

	cacheSize := 0
	if cfg.Cache.Enabled {
		cacheSize = cfg.Cache.Size
	}
	calendarService, err := application.NewCalendarService(bookingRepo, catalogue, agenda.LocaleES, cacheSize, now, logger)
	if err != nil {
		logger.Error("failed to build calendar service", "error", err)
		os.Exit(1)
	}
	bookingService := application.NewBookingServiceWithLogger(bookingRepo, calendarService, uuid.NewString, now, logger)
	exporter := ics.NewExporter(bookingService, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings:   httptransport.NewBookingHandler(bookingService, agenda.LocaleES, logger),
		Calendar:   httptransport.NewCalendarHandler(calendarService, exporter, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	if cfg.Cache.WarmCron != "" {
		warmer := cron.New()
		if _, err := warmer.AddFunc(cfg.Cache.WarmCron, func() {
			if err := calendarService.WarmCurrentMonth(context.Background()); err != nil {
				logger.Error("cache warm failed", "error", err)
			}
		}); err != nil {
			logger.Error("invalid cache warm schedule", "schedule", cfg.Cache.WarmCron, "error", err)
			os.Exit(1)
		}
		warmer.Start()
		defer warmer.Stop()
	}

	listener, err := events.NewListener(cfg.AMQP.Enabled, cfg.AMQP.URL, cfg.AMQP.Queue, calendarService, logger)
	if err != nil {
		logger.Error("failed to connect to broker", "error", err)
		os.Exit(1)
	}
	if err := listener.Start(ctx); err != nil {
		logger.Error("failed to start broker listener", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := listener.Stop(); cerr != nil {
			logger.Error("failed to stop broker listener", "error", cerr)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("console API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type bookingRepositoryAdapter struct {
	repo *sqlite.BookingRepository
}

func newBookingRepositoryAdapter(repo *sqlite.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	stored, err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking))
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) UpdateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	stored, err := a.repo.UpdateBooking(ctx, toPersistenceBooking(booking))
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) DeleteBooking(ctx context.Context, id string) error {
	return a.repo.DeleteBooking(ctx, id)
}

func (a *bookingRepositoryAdapter) ListBookings(ctx context.Context, filter application.BookingRepositoryFilter) ([]application.Booking, error) {
	models, err := a.repo.ListBookings(ctx, persistence.BookingFilter{
		From:   filter.From,
		To:     filter.To,
		Status: string(filter.Status),
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:        booking.ID,
		Name:      booking.Name,
		Date:      booking.Date,
		TimeSlots: append([]string(nil), booking.TimeSlots...),
		Status:    string(booking.Status),
		Message:   booking.Message,
		Recurring: cloneString(booking.Recurring),
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	return application.Booking{
		ID:        model.ID,
		Name:      model.Name,
		Date:      model.Date,
		TimeSlots: append([]string(nil), model.TimeSlots...),
		Status:    agenda.Status(model.Status),
		Message:   model.Message,
		Recurring: cloneString(model.Recurring),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
