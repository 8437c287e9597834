package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
	"github.com/dkomnin/SBS-BookingService/internal/domain"
	getSlots "github.com/dkomnin/SBS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStylistID = "некорректный ID мастера"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration  = "некорректная длительность услуг"
	msgInvalidPastDate  = "дата не может быть в прошлом"
	msgBusinessNotFound = "салон не найден"
	msgStylistNotFound  = "мастер не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/public/{slug}/available-slots?stylistId=&date=&durationMinutes=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	query := r.URL.Query()

	stylistID, err := strconv.ParseInt(query.Get("stylistId"), 10, 64)
	if err != nil || stylistID <= 0 {
		h.logger.Warn("GET /public/%s/available-slots - Invalid stylistId: %s", slug, query.Get("stylistId"))
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /public/%s/available-slots - Invalid date: %s", slug, query.Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	durationMinutes, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil || durationMinutes <= 0 {
		h.logger.Warn("GET /public/%s/available-slots - Invalid durationMinutes: %s", slug, query.Get("durationMinutes"))
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		Slug:            slug,
		StylistID:       stylistID,
		Date:            date,
		DurationMinutes: durationMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /public/%s/available-slots - Business not found", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getSlots.ErrStylistNotFound):
			h.logger.Warn("GET /public/%s/available-slots - Stylist not found: stylist_id=%d", slug, stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, getSlots.ErrInvalidDate):
			h.logger.Warn("GET /public/%s/available-slots - Invalid date: %s", slug, query.Get("date"))
			handlers.RespondBadRequest(w, msgInvalidPastDate)

		case errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /public/%s/available-slots - Invalid input: %v", slug, err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /public/%s/available-slots - Failed to get slots: %v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/%s/available-slots - Returned %d slots: stylist_id=%d, date=%s",
		slug, len(result.Slots), stylistID, query.Get("date"))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
