package submit_deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgDepositNotPending    = "депозит не ожидает оплаты"
	msgDepositNotRequired   = "для этой записи депозит не требуется"
)

type Handler struct {
	service DepositService
	logger  Logger
}

func NewHandler(service DepositService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/public/appointments/{appointmentId}/deposit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /public/appointments/{id}/deposit - Invalid appointment ID: %s", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req SubmitDepositRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/appointments/%d/deposit - Invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Submit(r.Context(), &models.SubmitDepositRequest{
		AppointmentID:    appointmentID,
		BookingReference: req.BookingReference,
	})
	if err != nil {
		switch {
		case errors.Is(err, deposits.ErrAppointmentNotFound):
			h.logger.Warn("POST /public/appointments/%d/deposit - Appointment not found", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, deposits.ErrDepositNotPending):
			h.logger.Warn("POST /public/appointments/%d/deposit - Deposit not pending", appointmentID)
			handlers.RespondConflict(w, msgDepositNotPending)

		case errors.Is(err, deposits.ErrDepositNotRequired):
			h.logger.Warn("POST /public/appointments/%d/deposit - Deposit not required", appointmentID)
			handlers.RespondConflict(w, msgDepositNotRequired)

		case errors.Is(err, deposits.ErrInvalidInput):
			h.logger.Warn("POST /public/appointments/%d/deposit - Invalid input: %v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /public/appointments/%d/deposit - Failed to submit deposit: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/appointments/%d/deposit - Deposit submitted", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
