package deposits

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	apptRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/appointment"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

// Действия салона над депозитом
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
	ActionWaive   = "waive"
)

// Service сервис жизненного цикла депозитов
// Клиентская сторона (Submit) авторизуется booking reference, сторона салона
// (Resolve) ограничена бизнесом из заголовка авторизации
type Service struct {
	appointmentRepo  AppointmentRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса депозитов
func NewService(
	appointmentRepo AppointmentRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Submit отмечает депозит как отправленный клиентом
// Допустим только из состояния pending; гонка с авто-отменой или повторная
// отправка возвращают ErrDepositNotPending
func (s *Service) Submit(ctx context.Context, req *models.SubmitDepositRequest) (*models.DepositStateResponse, error) {
	s.logger.Info("Submit: deposit submission for appointment id=%d", req.AppointmentID)

	if !domain.IsValidBookingReference(req.BookingReference) {
		s.logger.Warn("Submit: malformed booking reference for appointment id=%d", req.AppointmentID)
		return nil, fmt.Errorf("%w: malformed booking reference", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	var result *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByReference(txCtx, req.AppointmentID, req.BookingReference)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				// Несуществующая запись и неверный reference неразличимы:
				// reference и есть аутентификация клиента
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Submit - repository error: %v", ErrInternal, err)
		}

		if err := appt.SubmitDeposit(now); err != nil {
			switch {
			case errors.Is(err, domain.ErrDepositNotRequired):
				return ErrDepositNotRequired
			case errors.Is(err, domain.ErrDepositNotPending):
				return ErrDepositNotPending
			default:
				return fmt.Errorf("%w: Submit - domain error: %v", ErrInternal, err)
			}
		}

		if err := s.appointmentRepo.UpdateDeposit(txCtx, appt); err != nil {
			return fmt.Errorf("%w: Submit - repository error: %v", ErrInternal, err)
		}

		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Submit: deposit submitted for appointment id=%d", result.ID)
	s.notifySubmitted(ctx, result)

	return fromDomain(result), nil
}

// Resolve применяет решение салона по депозиту: confirm, reject или waive
// Разрешено из любого состояния депозита, кроме not_required - салон
// окончательный арбитр спорных платежей
func (s *Service) Resolve(ctx context.Context, req *models.ResolveDepositRequest) (*models.DepositStateResponse, error) {
	s.logger.Info("Resolve: action=%s for appointment id=%d, business=%d",
		req.Action, req.AppointmentID, req.BusinessID)

	if req.Action != ActionConfirm && req.Action != ActionReject && req.Action != ActionWaive {
		s.logger.Warn("Resolve: unknown action=%s", req.Action)
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	now := s.timeProvider.Now()
	var result *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, req.BusinessID, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
		}

		switch req.Action {
		case ActionConfirm:
			err = appt.ConfirmDeposit(now)
		case ActionReject:
			err = appt.RejectDeposit(req.Reason)
		case ActionWaive:
			err = appt.WaiveDeposit(now)
		}
		if err != nil {
			if errors.Is(err, domain.ErrDepositNotRequired) {
				return ErrDepositNotRequired
			}
			return fmt.Errorf("%w: Resolve - domain error: %v", ErrInternal, err)
		}

		if err := s.appointmentRepo.UpdateDeposit(txCtx, appt); err != nil {
			return fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
		}

		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Resolve: action=%s applied to appointment id=%d, status=%s, deposit=%s",
		req.Action, result.ID, result.Status, result.DepositStatus)

	return fromDomain(result), nil
}

// notifySubmitted создает срочное уведомление салону о заявленной оплате
// Ошибки логируются и проглатываются: состояние депозита уже сохранено
func (s *Service) notifySubmitted(ctx context.Context, appt *domain.Appointment) {
	apptID := appt.ID
	_, err := s.notificationRepo.Create(ctx, &domain.Notification{
		BusinessID:    appt.BusinessID,
		AppointmentID: &apptID,
		Type:          domain.NotificationDepositSubmitted,
		Title:         "Клиент сообщил об оплате депозита",
		Message: fmt.Sprintf("По записи %s заявлена оплата %.2f, требуется проверка",
			appt.BookingReference, appt.DepositAmount),
		IsUrgent: true,
	})
	if err != nil {
		s.logger.Error("notifySubmitted: failed to create notification for appointment id=%d: %v", appt.ID, err)
	}
}

func fromDomain(a *domain.Appointment) *models.DepositStateResponse {
	return &models.DepositStateResponse{
		AppointmentID:      a.ID,
		Status:             string(a.Status),
		DepositStatus:      string(a.DepositStatus),
		DepositAmount:      a.DepositAmount,
		PaymentDeadline:    a.PaymentDeadline,
		PaymentSubmittedAt: a.PaymentSubmittedAt,
		PaymentConfirmedAt: a.PaymentConfirmedAt,
	}
}
