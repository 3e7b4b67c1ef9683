package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
)

type bookingService interface {
	Create(ctx context.Context, input application.BookingInput) (application.Booking, error)
	Update(ctx context.Context, id string, update application.BookingUpdate) (application.Booking, error)
	Get(ctx context.Context, id string) (application.Booking, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params application.ListBookingsParams) ([]application.Booking, error)
}

// BookingHandler serves the booking CRUD endpoints.
type BookingHandler struct {
	service   bookingService
	locale    agenda.Locale
	responder responder
}

// NewBookingHandler wires the handler with its service and base logger.
func NewBookingHandler(service bookingService, locale agenda.Locale, logger *slog.Logger) *BookingHandler {
	if locale == "" {
		locale = agenda.LocaleES
	}
	return &BookingHandler{service: service, locale: locale, responder: newResponder(logger)}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	booking, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, h.toDTO(booking))
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.toDTO(booking))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req bookingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	booking, err := h.service.Update(r.Context(), id, req.toUpdate())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.toDTO(booking))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	bookings, err := h.service.List(r.Context(), application.ListBookingsParams{
		From:   query.Get("from"),
		To:     query.Get("to"),
		Status: agenda.Status(query.Get("status")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		dtos = append(dtos, h.toDTO(booking))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingListResponse{Bookings: dtos})
}

func (h *BookingHandler) toDTO(booking application.Booking) bookingDTO {
	anchor, _ := agenda.ParseDate(booking.Date)
	return bookingDTO{
		ID:              booking.ID,
		Name:            booking.Name,
		Date:            booking.Date,
		TimeSlots:       booking.TimeSlots,
		Status:          string(booking.Status),
		Message:         booking.Message,
		Recurring:       booking.Recurring,
		TimeLabel:       booking.Window().Label(h.locale),
		RecurrenceLabel: agenda.Describe(booking.Rule(), anchor, h.locale),
		CreatedAt:       booking.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       booking.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type bookingRequest struct {
	Name      string   `json:"name"`
	Date      string   `json:"date"`
	TimeSlots []string `json:"time_slots"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Recurring *string  `json:"recurring"`
}

func (r bookingRequest) toInput() application.BookingInput {
	return application.BookingInput{
		Name:      r.Name,
		Date:      r.Date,
		TimeSlots: r.TimeSlots,
		Status:    agenda.Status(r.Status),
		Message:   r.Message,
		Recurring: r.Recurring,
	}
}

type bookingUpdateRequest struct {
	Name      *string   `json:"name"`
	Date      *string   `json:"date"`
	TimeSlots *[]string `json:"time_slots"`
	Status    *string   `json:"status"`
	Message   *string   `json:"message"`
	Recurring *string   `json:"recurring"`
}

func (r bookingUpdateRequest) toUpdate() application.BookingUpdate {
	update := application.BookingUpdate{
		Name:      r.Name,
		Date:      r.Date,
		TimeSlots: r.TimeSlots,
		Message:   r.Message,
		Recurring: r.Recurring,
	}
	if r.Status != nil {
		status := agenda.Status(*r.Status)
		update.Status = &status
	}
	return update
}

type bookingDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Date            string   `json:"date"`
	TimeSlots       []string `json:"time_slots"`
	Status          string   `json:"status"`
	Message         string   `json:"message,omitempty"`
	Recurring       *string  `json:"recurring"`
	TimeLabel       string   `json:"time_label"`
	RecurrenceLabel string   `json:"recurrence_label"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type bookingListResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}
