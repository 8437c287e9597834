package delete_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
	"github.com/dkomnin/SBS-BookingService/internal/api/middleware"
	"github.com/dkomnin/SBS-BookingService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "требуется авторизация"
	msgAppointmentNotFound  = "запись не найдена"
	msgNotDeletable         = "оплаченную или состоявшуюся запись удалить нельзя"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("DELETE /appointments/{id} - Invalid appointment ID: %s", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if err := h.service.Delete(r.Context(), businessID, appointmentID); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("DELETE /appointments/%d - Appointment not found: business_id=%d", appointmentID, businessID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrNotDeletable):
			h.logger.Warn("DELETE /appointments/%d - Not deletable: business_id=%d", appointmentID, businessID)
			handlers.RespondConflict(w, msgNotDeletable)

		default:
			h.logger.Error("DELETE /appointments/%d - Failed to delete appointment: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /appointments/%d - Appointment deleted: business_id=%d", appointmentID, businessID)
	w.WriteHeader(http.StatusNoContent)
}
