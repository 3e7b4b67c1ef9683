package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
)

type fakeBookingService struct {
	created application.BookingInput
	booking application.Booking
	err     error
}

func (f *fakeBookingService) Create(_ context.Context, input application.BookingInput) (application.Booking, error) {
	f.created = input
	if f.err != nil {
		return application.Booking{}, f.err
	}
	return f.booking, nil
}

func (f *fakeBookingService) Update(_ context.Context, _ string, _ application.BookingUpdate) (application.Booking, error) {
	return f.booking, f.err
}

func (f *fakeBookingService) Get(_ context.Context, _ string) (application.Booking, error) {
	return f.booking, f.err
}

func (f *fakeBookingService) Delete(_ context.Context, _ string) error {
	return f.err
}

func (f *fakeBookingService) List(_ context.Context, _ application.ListBookingsParams) ([]application.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []application.Booking{f.booking}, nil
}

type fakeCalendarService struct {
	aggregates agenda.DayAggregates
	detail     application.DayDetail
	err        error
}

func (f *fakeCalendarService) DayAggregates(_ context.Context, _, _ string) (agenda.DayAggregates, error) {
	return f.aggregates, f.err
}

func (f *fakeCalendarService) DayDetail(_ context.Context, _ string) (application.DayDetail, error) {
	return f.detail, f.err
}

func newTestRouter(bookings *fakeBookingService, calendar *fakeCalendarService) http.Handler {
	cfg := RouterConfig{}
	if bookings != nil {
		cfg.Bookings = NewBookingHandler(bookings, agenda.LocaleES, nil)
	}
	if calendar != nil {
		cfg.Calendar = NewCalendarHandler(calendar, nil, nil)
	}
	return NewRouter(cfg)
}

func weeklyBooking() application.Booking {
	weekly := "weekly"
	return application.Booking{
		ID:        "b-1",
		Name:      "Recordatorio",
		Date:      "2025-12-01",
		TimeSlots: []string{"09:00-09:30"},
		Status:    agenda.StatusReminder,
		Recurring: &weekly,
	}
}

func TestBookingHandlerCreate(t *testing.T) {
	service := &fakeBookingService{booking: weeklyBooking()}
	router := newTestRouter(service, nil)

	body := `{"name":"Recordatorio","date":"2025-12-01","time_slots":["09:00-09:30"],"status":"reminder","recurring":"weekly"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var dto bookingDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.TimeLabel != "9:00 a 9:30" {
		t.Fatalf("time_label = %q, want %q", dto.TimeLabel, "9:00 a 9:30")
	}
	if dto.RecurrenceLabel != "Cada semana el lunes" {
		t.Fatalf("recurrence_label = %q, want %q", dto.RecurrenceLabel, "Cada semana el lunes")
	}
	if service.created.Status != agenda.StatusReminder {
		t.Fatalf("forwarded status = %q", service.created.Status)
	}
}

func TestBookingHandlerValidationErrorIsLocalized(t *testing.T) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{
		"recurring": "recurrence days are required",
	}}
	router := newTestRouter(&fakeBookingService{err: vErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Errors["recurring"] != "Seleccione al menos un día de la semana para la repetición." {
		t.Fatalf("localized error = %q", resp.Errors["recurring"])
	}
}

func TestBookingHandlerNotFound(t *testing.T) {
	router := newTestRouter(&fakeBookingService{err: application.ErrNotFound}, nil)

	req := httptest.NewRequest(http.MethodGet, "/bookings/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBookingHandlerBadBody(t *testing.T) {
	router := newTestRouter(&fakeBookingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookingHandlerDelete(t *testing.T) {
	router := newTestRouter(&fakeBookingService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/bookings/b-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestCalendarHandlerAggregates(t *testing.T) {
	calendar := &fakeCalendarService{aggregates: agenda.DayAggregates{
		"2025-12-01": {agenda.StatusConfirmed: 2},
	}}
	router := newTestRouter(nil, calendar)

	req := httptest.NewRequest(http.MethodGet, "/calendar/aggregates?from=2025-12-01&to=2025-12-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Days map[string]map[string]int `json:"days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Days["2025-12-01"]["confirmed"] != 2 {
		t.Fatalf("aggregates payload = %v", resp.Days)
	}
}

func TestCalendarHandlerDay(t *testing.T) {
	calendar := &fakeCalendarService{detail: application.DayDetail{
		Date:          "2025-12-01",
		OccupiedSlots: []string{"09:00-09:30"},
		FullyBooked:   false,
		Cards: []application.BookingCard{{
			ID: "b-1", Name: "Recordatorio", Status: agenda.StatusReminder,
			TimeLabel: "9:00 a 9:30", RecurrenceLabel: "Cada semana el lunes",
		}},
	}}
	router := newTestRouter(nil, calendar)

	req := httptest.NewRequest(http.MethodGet, "/calendar/days/2025-12-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var dto dayDetailDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(dto.Cards) != 1 || dto.Cards[0].RecurrenceLabel != "Cada semana el lunes" {
		t.Fatalf("day payload = %+v", dto)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeBookingService{}, &fakeCalendarService{})

	req := httptest.NewRequest(http.MethodPatch, "/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("Allow header = %q", allow)
	}
}

func TestCalendarExportDisabledWithoutExporter(t *testing.T) {
	router := newTestRouter(nil, &fakeCalendarService{})

	req := httptest.NewRequest(http.MethodGet, "/calendar/export.ics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
