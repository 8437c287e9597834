package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	"github.com/dkomnin/SBS-BookingService/pkg/dbmetrics"
	"github.com/dkomnin/SBS-BookingService/pkg/psqlbuilder"
)

// appointmentColumns колонки таблицы appointments в порядке сканирования
var appointmentColumns = []string{
	"id",
	"business_id",
	"client_id",
	"stylist_id",
	"requested_at",
	"duration_minutes",
	"total_price",
	"status",
	"booking_reference",
	"deposit_status",
	"deposit_amount",
	"payment_deadline",
	"payment_submitted_at",
	"payment_confirmed_at",
	"confirmed_at",
	"auto_cancelled_at",
	"cancel_reason",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями (appointments)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе со snapshot-строками услуг
// Должен вызываться внутри транзакции (executor берётся из контекста):
// запись и её услуги либо сохраняются целиком, либо не сохраняются вовсе
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"business_id",
			"client_id",
			"stylist_id",
			"requested_at",
			"duration_minutes",
			"total_price",
			"status",
			"booking_reference",
			"deposit_status",
			"deposit_amount",
			"payment_deadline",
			"notes",
		).
		Values(
			appt.BusinessID,
			appt.ClientID,
			appt.StylistID,
			appt.RequestedAt,
			appt.DurationMinutes,
			appt.TotalPrice,
			appt.Status,
			appt.BookingReference,
			appt.DepositStatus,
			appt.DepositAmount,
			appt.PaymentDeadline,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "appointments_booking_reference_key") {
			return nil, ErrReferenceTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	// Snapshot-строки услуг
	for i := range appt.Services {
		svc := &appt.Services[i]
		svc.AppointmentID = appt.ID

		query, args, err := psqlbuilder.Insert("appointment_services").
			Columns("appointment_id", "service_id", "name", "price", "duration_minutes").
			Values(appt.ID, svc.ServiceID, svc.Name, svc.Price, svc.DurationMinutes).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build service insert: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&svc.ID); err != nil {
			return nil, fmt.Errorf("%w: Create - insert service snapshot: %v", ErrExecQuery, err)
		}
	}

	return appt, nil
}

// GetByID получает запись по ID в рамках одного бизнеса (tenant isolation)
func (r *Repository) GetByID(ctx context.Context, businessID, id int64) (*domain.Appointment, error) {
	appt, err := r.getOne(ctx, squirrel.Eq{"id": id, "business_id": businessID})
	if err != nil {
		return nil, err
	}
	if err := r.loadServices(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetByReference получает запись по ID и booking reference
// Это единственный путь доступа без авторизации бизнеса: область видимости
// ограничена одной записью парой (id, reference), а не tenant'ом
func (r *Repository) GetByReference(ctx context.Context, id int64, reference string) (*domain.Appointment, error) {
	appt, err := r.getOne(ctx, squirrel.Eq{"id": id, "booking_reference": reference})
	if err != nil {
		return nil, err
	}
	if err := r.loadServices(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetByStylistAndDate получает все записи мастера на указанную дату
// Используется для проверки пересечений; статусы не фильтруются на уровне SQL,
// неактивные записи отбрасывает домен
func (r *Repository) GetByStylistAndDate(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	return r.getMany(ctx, squirrel.And{
		squirrel.Eq{"stylist_id": stylistID},
		squirrel.GtOrEq{"requested_at": dayStart},
		squirrel.Lt{"requested_at": dayEnd},
	})
}

// GetByBusinessWithFilter получает записи бизнеса с гибкой фильтрацией
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	conditions := squirrel.And{
		squirrel.Eq{"business_id": filter.BusinessID},
	}

	if filter.StylistID != nil {
		conditions = append(conditions, squirrel.Eq{"stylist_id": *filter.StylistID})
	}
	if filter.StartDate != nil {
		start := *filter.StartDate
		dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		conditions = append(conditions, squirrel.GtOrEq{"requested_at": dayStart})
	}
	if filter.EndDate != nil {
		end := *filter.EndDate
		dayEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
		conditions = append(conditions, squirrel.Lt{"requested_at": dayEnd})
	}
	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": *filter.Status})
	}
	if !filter.IncludeInactive {
		conditions = append(conditions, squirrel.NotEq{"status": domain.InactiveStatuses})
	}

	return r.getMany(ctx, conditions)
}

// ExistsByReference проверяет, занят ли booking reference
func (r *Repository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{"booking_reference": reference}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByReference - build query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByReference - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

// UpdateStatus обновляет статус записи
// cancelReason записывается только для отменяющих статусов
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, cancelReason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if cancelReason != nil {
		builder = builder.Set("cancel_reason", *cancelReason)
	}
	if status == domain.StatusConfirmed {
		builder = builder.Set("confirmed_at", squirrel.Expr("COALESCE(confirmed_at, NOW())"))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result)
}

// UpdateDeposit сохраняет состояние депозита и связанные поля после перехода
// state machine. Обновляются все поля, которые переходы могут менять
func (r *Repository) UpdateDeposit(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", appt.Status).
		Set("deposit_status", appt.DepositStatus).
		Set("payment_submitted_at", appt.PaymentSubmittedAt).
		Set("payment_confirmed_at", appt.PaymentConfirmedAt).
		Set("confirmed_at", appt.ConfirmedAt).
		Set("auto_cancelled_at", appt.AutoCancelledAt).
		Set("cancel_reason", appt.CancelReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": appt.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateDeposit - build query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDeposit - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result)
}

// ListDepositExpired получает записи с истёкшим дедлайном оплаты
// Условие повторяет guard авто-отмены: pending_deposit + депозит не подтверждён
// + дедлайн в прошлом
func (r *Repository) ListDepositExpired(ctx context.Context, now time.Time) ([]*domain.Appointment, error) {
	return r.getMany(ctx, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingDeposit},
		squirrel.Eq{"deposit_status": []domain.DepositStatus{domain.DepositPending, domain.DepositSubmitted}},
		squirrel.LtOrEq{"payment_deadline": now},
	})
}

// ListDepositExpiring получает записи, дедлайн которых попадает в окно (now, until]
func (r *Repository) ListDepositExpiring(ctx context.Context, now, until time.Time) ([]*domain.Appointment, error) {
	return r.getMany(ctx, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingDeposit},
		squirrel.Eq{"deposit_status": []domain.DepositStatus{domain.DepositPending, domain.DepositSubmitted}},
		squirrel.Gt{"payment_deadline": now},
		squirrel.LtOrEq{"payment_deadline": until},
	})
}

// Delete удаляет запись вместе со snapshot-строками услуг
// Должен вызываться внутри транзакции; допустимость удаления проверяет caller
func (r *Repository) Delete(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_services").
		Where(squirrel.Eq{"appointment_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build services delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - delete service snapshots: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result)
}

// Вспомогательные методы

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan appointment: %v", ErrScanRow, err)
	}
	return appt, nil
}

func (r *Repository) getMany(ctx context.Context, where squirrel.Sqlizer) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where).
		OrderBy("requested_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getMany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getMany - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var appointments []*domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: getMany - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getMany - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// loadServices загружает snapshot-строки услуг записи
func (r *Repository) loadServices(ctx context.Context, appt *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"service_id",
		"name",
		"price",
		"duration_minutes",
	).
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": appt.ID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServices - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var services []domain.AppointmentService
	for rows.Next() {
		var svc domain.AppointmentService
		if err := rows.Scan(&svc.ID, &svc.AppointmentID, &svc.ServiceID, &svc.Name, &svc.Price, &svc.DurationMinutes); err != nil {
			return fmt.Errorf("%w: loadServices - scan service: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	appt.Services = services
	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.BusinessID,
		&appt.ClientID,
		&appt.StylistID,
		&appt.RequestedAt,
		&appt.DurationMinutes,
		&appt.TotalPrice,
		&appt.Status,
		&appt.BookingReference,
		&appt.DepositStatus,
		&appt.DepositAmount,
		&appt.PaymentDeadline,
		&appt.PaymentSubmittedAt,
		&appt.PaymentConfirmedAt,
		&appt.ConfirmedAt,
		&appt.AutoCancelledAt,
		&appt.CancelReason,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	return &appt, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == constraint
	}
	return false
}
