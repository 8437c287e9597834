package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	"github.com/dkomnin/SBS-BookingService/pkg/dbmetrics"
	"github.com/dkomnin/SBS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с уведомлениями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает уведомление
func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("notifications").
		Columns("business_id", "appointment_id", "type", "title", "message", "is_urgent").
		Values(n.BusinessID, n.AppointmentID, n.Type, n.Title, n.Message, n.IsUrgent).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	n.CreatedAt = createdAt.Time
	return n, nil
}

// ExistsRecent проверяет, создавалось ли уведомление данного типа для записи
// после момента since. Используется реконсайлером для дедупликации предупреждений
func (r *Repository) ExistsRecent(ctx context.Context, appointmentID int64, ntype domain.NotificationType, since time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("notifications").
		Where(squirrel.And{
			squirrel.Eq{"appointment_id": appointmentID, "type": ntype},
			squirrel.GtOrEq{"created_at": since},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsRecent - build query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsRecent - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

// ListUnread получает непрочитанные уведомления бизнеса, новые первыми
func (r *Repository) ListUnread(ctx context.Context, businessID int64) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"appointment_id",
		"type",
		"title",
		"message",
		"is_urgent",
		"is_read",
		"created_at",
	).
		From("notifications").
		Where(squirrel.Eq{"business_id": businessID, "is_read": false}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnread - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnread - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.BusinessID, &n.AppointmentID, &n.Type, &n.Title, &n.Message, &n.IsUrgent, &n.IsRead, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListUnread - scan notification: %v", ErrScanRow, err)
		}
		n.CreatedAt = createdAt.Time
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnread - rows error: %v", ErrScanRow, err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление бизнеса прочитанным
func (r *Repository) MarkRead(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - build query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRead - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkRead - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
