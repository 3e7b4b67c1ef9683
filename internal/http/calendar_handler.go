package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/agenda-console/internal/agenda"
	"github.com/example/agenda-console/internal/application"
)

type calendarService interface {
	DayAggregates(ctx context.Context, from, to string) (agenda.DayAggregates, error)
	DayDetail(ctx context.Context, date string) (application.DayDetail, error)
}

type calendarExporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// CalendarHandler serves the read endpoints consumed by the calendar UI.
type CalendarHandler struct {
	service   calendarService
	exporter  calendarExporter
	responder responder
}

// NewCalendarHandler wires the handler. exporter may be nil, which disables
// the export endpoint.
func NewCalendarHandler(service calendarService, exporter calendarExporter, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, exporter: exporter, responder: newResponder(logger)}
}

// Aggregates returns the per-day status counts for the requested range.
func (h *CalendarHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	aggregates, err := h.service.DayAggregates(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, aggregatesResponse{Days: aggregates})
}

// Day returns the day panel payload for the date resolved from the path.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok := DateFromContext(r.Context())
	if !ok || strings.TrimSpace(date) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	detail, err := h.service.DayDetail(r.Context(), date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayDetailDTO(detail))
}

// Export streams the iCalendar feed of every stored booking.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.exporter == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	payload, err := h.exporter.Export(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}

type aggregatesResponse struct {
	Days agenda.DayAggregates `json:"days"`
}

type dayDetailDTO struct {
	Date          string    `json:"date"`
	OccupiedSlots []string  `json:"occupied_slots"`
	FullyBooked   bool      `json:"fully_booked"`
	Cards         []cardDTO `json:"cards"`
}

type cardDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	TimeLabel       string `json:"time_label"`
	RecurrenceLabel string `json:"recurrence_label"`
}

func toDayDetailDTO(detail application.DayDetail) dayDetailDTO {
	dto := dayDetailDTO{
		Date:          detail.Date,
		OccupiedSlots: detail.OccupiedSlots,
		FullyBooked:   detail.FullyBooked,
		Cards:         make([]cardDTO, 0, len(detail.Cards)),
	}
	for _, card := range detail.Cards {
		dto.Cards = append(dto.Cards, cardDTO{
			ID:              card.ID,
			Name:            card.Name,
			Status:          string(card.Status),
			Message:         card.Message,
			TimeLabel:       card.TimeLabel,
			RecurrenceLabel: card.RecurrenceLabel,
		})
	}
	return dto
}
