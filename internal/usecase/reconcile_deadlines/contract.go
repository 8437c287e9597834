package reconcile_deadlines

import (
	"context"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListDepositExpired(ctx context.Context, now time.Time) ([]*domain.Appointment, error)
	ListDepositExpiring(ctx context.Context, now, until time.Time) ([]*domain.Appointment, error)
	UpdateDeposit(ctx context.Context, appt *domain.Appointment) error
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ExistsRecent(ctx context.Context, appointmentID int64, ntype domain.NotificationType, since time.Time) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
