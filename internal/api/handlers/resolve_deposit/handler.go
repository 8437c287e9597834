package resolve_deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
	"github.com/dkomnin/SBS-BookingService/internal/api/middleware"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "требуется авторизация"
	msgAppointmentNotFound  = "запись не найдена"
	msgDepositNotRequired   = "для этой записи депозит не требуется"
	msgInvalidAction        = "некорректное действие, ожидается confirm, reject или waive"
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

// Handle POST /api/v1/appointments/{appointmentId}/deposit/resolve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.BusinessIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /appointments/{id}/deposit/resolve - Invalid appointment ID: %s", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ResolveDepositRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/%d/deposit/resolve - Invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Resolve(r.Context(), &models.ResolveDepositRequest{
		BusinessID:    businessID,
		AppointmentID: appointmentID,
		Action:        req.Action,
		Reason:        req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, deposits.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/%d/deposit/resolve - Appointment not found: business_id=%d",
				appointmentID, businessID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, deposits.ErrDepositNotRequired):
			h.logger.Warn("POST /appointments/%d/deposit/resolve - Deposit not required", appointmentID)
			handlers.RespondConflict(w, msgDepositNotRequired)

		case errors.Is(err, deposits.ErrInvalidInput):
			h.logger.Warn("POST /appointments/%d/deposit/resolve - Invalid action: %s", appointmentID, req.Action)
			handlers.RespondBadRequest(w, msgInvalidAction)

		default:
			h.logger.Error("POST /appointments/%d/deposit/resolve - Failed to resolve deposit: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/%d/deposit/resolve - Action %s applied: business_id=%d",
		appointmentID, req.Action, businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
