package run_reconciliation

import (
	"crypto/subtle"
	"net/http"

	"github.com/dkomnin/SBS-BookingService/internal/api/handlers"
)

// HeaderReconcileToken заголовок авторизации служебного запуска сверки
const HeaderReconcileToken = "X-Reconcile-Token"

const msgForbidden = "доступ запрещён"

// ReconciliationResponse HTTP response model
type ReconciliationResponse struct {
	Expired int `json:"expired"`
	Warned  int `json:"warned"`
}

type Handler struct {
	useCase ReconcileUseCase
	token   string
	logger  Logger
}

func NewHandler(useCase ReconcileUseCase, token string, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		token:   token,
		logger:  logger,
	}
}

// Handle POST /internal/reconcile
// Служебный эндпоинт для запуска сверки вне расписания (ops и тесты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get(HeaderReconcileToken)
	if h.token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.token)) != 1 {
		h.logger.Warn("POST /internal/reconcile - Invalid reconcile token")
		handlers.RespondError(w, http.StatusForbidden, msgForbidden)
		return
	}

	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/reconcile - Reconciliation failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/reconcile - Reconciliation done: expired=%d, warned=%d",
		result.Expired, result.Warned)
	handlers.RespondJSON(w, http.StatusOK, ReconciliationResponse{
		Expired: result.Expired,
		Warned:  result.Warned,
	})
}
