package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
	createBooking "github.com/dkomnin/SBS-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgBusinessNotFound    = "салон не найден"
	msgStylistNotFound     = "мастер не найден"
	msgServiceNotFound     = "одна или несколько услуг не найдены"
	msgClosed              = "мастер не работает в выбранную дату"
	msgOutsideWorkingHours = "слот выходит за рамки рабочего времени"
	msgInvalidBookingDate  = "некорректная дата записи"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/public/{slug}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/%s/bookings - Invalid request body: %v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(slug)
	if err != nil {
		h.logger.Warn("POST /public/%s/bookings - Failed to parse request: %v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /public/%s/bookings - Slot not available: stylist_id=%d, date=%s, time=%s",
				slug, req.StylistID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /public/%s/bookings - Business not found", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrStylistNotFound):
			h.logger.Warn("POST /public/%s/bookings - Stylist not found: stylist_id=%d", slug, req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /public/%s/bookings - Service not found: service_ids=%v", slug, req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrClosed):
			h.logger.Warn("POST /public/%s/bookings - Stylist not working: stylist_id=%d, date=%s",
				slug, req.StylistID, req.Date)
			handlers.RespondBadRequest(w, msgClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /public/%s/bookings - Outside working hours: stylist_id=%d, time=%s",
				slug, req.StylistID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /public/%s/bookings - Invalid booking date: date=%s", slug, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /public/%s/bookings - Invalid input: %v", slug, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /public/%s/bookings - Failed to create booking: %v", slug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/%s/bookings - Booking created: appointment_id=%d, reference=%s",
		slug, result.AppointmentID, result.BookingReference)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
