package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	apptRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/appointment"
	"github.com/dkomnin/SBS-BookingService/internal/service/appointments/models"
)

// Service сервис управления записями со стороны персонала салона
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись бизнеса по ID
// Запись чужого бизнеса неотличима от несуществующей
func (s *Service) GetByID(ctx context.Context, businessID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for business=%d", id, businessID)

	appt, err := s.appointmentRepo.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found in business=%d", id, businessID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению
// отменённых записей
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("List: fetching appointments for business=%d", req.BusinessID)
	if req.StylistID != nil {
		logMsg += fmt.Sprintf(", stylist=%d", *req.StylistID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for business=%d", len(appts), req.BusinessID)
	return models.FromDomainAppointmentList(appts), nil
}

// UpdateStatus переводит запись в новый статус жизненного цикла
// Переходы проверяются по whitelist; при переходе в completed ровно один раз
// обновляется статистика клиента (число визитов и сумма трат)
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s for business=%d",
		id, req.Status, req.BusinessID)

	newStatus, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if req.CancelReason != nil && len(*req.CancelReason) > domain.MaxCancelReasonLength {
		return nil, fmt.Errorf("%w: cancel reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	var result *domain.Appointment

	// Чтение, проверка перехода и побочный эффект completed выполняются в
	// одной сериализуемой транзакции: два конкурентных completed не должны
	// дважды увеличить статистику клиента
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, req.BusinessID, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !appt.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
				appt.Status, newStatus, id)
			return ErrInvalidTransition
		}

		previous := appt.Status
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus, req.CancelReason); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		// Побочный эффект выполняется только на самом переходе: completed
		// терминален, так что previous != completed гарантирует ровно одно
		// срабатывание
		if newStatus == domain.StatusCompleted && previous != domain.StatusCompleted {
			if err := s.clientRepo.IncrementVisitStats(txCtx, appt.ClientID, appt.TotalPrice); err != nil {
				return fmt.Errorf("%w: UpdateStatus - failed to update client stats: %v", ErrInternal, err)
			}
			s.logger.Info("UpdateStatus: incremented visit stats for client=%d, spent=%.2f",
				appt.ClientID, appt.TotalPrice)
		}

		appt.Status = newStatus
		if newStatus == domain.StatusCancelled {
			appt.CancelReason = req.CancelReason
		}
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return models.FromDomainAppointment(result), nil
}

// Delete удаляет запись, пока она не оплачена и не завершена
// Оплаченные (депозит submitted/confirmed) и состоявшиеся записи не удаляются
func (s *Service) Delete(ctx context.Context, businessID, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d for business=%d", id, businessID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, businessID, id)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if !appt.IsDeletable() {
			s.logger.Warn("Delete: appointment id=%d is not deletable, status=%s, deposit=%s",
				id, appt.Status, appt.DepositStatus)
			return ErrNotDeletable
		}

		if err := s.appointmentRepo.Delete(txCtx, businessID, id); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted appointment id=%d", id)
	return nil
}
