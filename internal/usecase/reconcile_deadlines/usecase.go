package reconcile_deadlines

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
)

// UseCase use case сверки платёжных дедлайнов
// Выполняет два прохода: авто-отмена записей с истёкшим дедлайном и
// предупреждения о скором истечении. Каждая запись обрабатывается в своей
// транзакции: сбой на одной записи не останавливает проход
type UseCase struct {
	appointmentRepo  AppointmentRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger

	warningWindow time.Duration // горизонт предупреждений от текущего момента
	dedupWindow   time.Duration // окно подавления повторных предупреждений
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	warningWindow time.Duration,
	dedupWindow time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		warningWindow:    warningWindow,
		dedupWindow:      dedupWindow,
	}
}

// Execute выполняет один проход реконсайлера
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()

	expired, err := uc.sweepExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	warned, err := uc.sweepWarnings(ctx, now)
	if err != nil {
		return nil, err
	}

	if expired > 0 || warned > 0 {
		uc.logger.Info("Reconcile: auto-cancelled %d, warned %d", expired, warned)
	}

	return &Result{Expired: expired, Warned: warned}, nil
}

// sweepExpired отменяет записи, у которых платёжный дедлайн уже прошёл,
// а депозит так и не подтверждён
func (uc *UseCase) sweepExpired(ctx context.Context, now time.Time) (int, error) {
	candidates, err := uc.appointmentRepo.ListDepositExpired(ctx, now)
	if err != nil {
		uc.logger.Error("Reconcile: failed to list expired deposits: %v", err)
		return 0, fmt.Errorf("%w: failed to list expired deposits: %v", ErrInternal, err)
	}

	expired := 0
	for _, appt := range candidates {
		cancelled, err := uc.expireOne(ctx, appt, now)
		if err != nil {
			uc.logger.Error("Reconcile: failed to auto-cancel appointment id=%d: %v", appt.ID, err)
			continue
		}
		if cancelled {
			expired++
		}
	}

	return expired, nil
}

// expireOne применяет авто-отмену к одной записи в собственной транзакции.
// Возвращает false, если запись уже вышла из отменяемого состояния
func (uc *UseCase) expireOne(ctx context.Context, appt *domain.Appointment, now time.Time) (bool, error) {
	// Повторная проверка условий в памяти: выборка и применение разнесены
	// во времени, и запись могла успеть подтвердиться
	if err := appt.AutoExpireDeposit(now); err != nil {
		if errors.Is(err, domain.ErrDepositNotExpirable) {
			uc.logger.Warn("Reconcile: appointment id=%d no longer eligible for auto-cancel", appt.ID)
			return false, nil
		}
		return false, err
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.UpdateDeposit(txCtx, appt); err != nil {
			return err
		}

		apptID := appt.ID
		_, err := uc.notificationRepo.Create(txCtx, &domain.Notification{
			BusinessID:    appt.BusinessID,
			AppointmentID: &apptID,
			Type:          domain.NotificationBookingAutoCancelled,
			Title:         "Запись отменена автоматически",
			Message: fmt.Sprintf("Запись %s на %s отменена: депозит не оплачен в срок",
				appt.BookingReference,
				appt.RequestedAt.Format(domain.DateFormat+" "+domain.TimeFormat)),
			IsUrgent: false,
		})
		return err
	})
	if err != nil {
		return false, err
	}

	uc.logger.Info("Reconcile: auto-cancelled appointment id=%d, reference=%s",
		appt.ID, appt.BookingReference)
	return true, nil
}

// sweepWarnings создает предупреждения для записей, чей дедлайн истекает в
// ближайшем окне. Дедупликация через наличие недавнего уведомления того же типа
func (uc *UseCase) sweepWarnings(ctx context.Context, now time.Time) (int, error) {
	candidates, err := uc.appointmentRepo.ListDepositExpiring(ctx, now, now.Add(uc.warningWindow))
	if err != nil {
		uc.logger.Error("Reconcile: failed to list expiring deposits: %v", err)
		return 0, fmt.Errorf("%w: failed to list expiring deposits: %v", ErrInternal, err)
	}

	warned := 0
	for _, appt := range candidates {
		created, err := uc.warnOne(ctx, appt, now)
		if err != nil {
			uc.logger.Error("Reconcile: failed to warn for appointment id=%d: %v", appt.ID, err)
			continue
		}
		if created {
			warned++
		}
	}

	return warned, nil
}

// warnOne создает одно предупреждение, если оно ещё не отправлялось в окне
// дедупликации
func (uc *UseCase) warnOne(ctx context.Context, appt *domain.Appointment, now time.Time) (bool, error) {
	exists, err := uc.notificationRepo.ExistsRecent(ctx, appt.ID,
		domain.NotificationPaymentDeadlineWarning, now.Add(-uc.dedupWindow))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	apptID := appt.ID
	_, err = uc.notificationRepo.Create(ctx, &domain.Notification{
		BusinessID:    appt.BusinessID,
		AppointmentID: &apptID,
		Type:          domain.NotificationPaymentDeadlineWarning,
		Title:         "Истекает срок оплаты депозита",
		Message: fmt.Sprintf("По записи %s срок оплаты депозита истекает в %s",
			appt.BookingReference,
			appt.PaymentDeadline.Format(domain.TimeFormat)),
		IsUrgent: true,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
