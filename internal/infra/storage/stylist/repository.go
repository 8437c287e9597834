package stylist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	"github.com/dkomnin/SBS-BookingService/pkg/dbmetrics"
	"github.com/dkomnin/SBS-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с мастерами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает мастера с дефолтным расписанием Пн-Сб
func (r *Repository) Create(ctx context.Context, stylist *domain.Stylist) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stylists").
		Columns("business_id", "name", "is_active").
		Values(stylist.BusinessID, stylist.Name, stylist.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&stylist.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	stylist.CreatedAt = createdAt.Time
	stylist.UpdatedAt = updatedAt.Time

	if len(stylist.Schedule) == 0 {
		stylist.Schedule = domain.DefaultSchedule()
	}
	if err := r.insertSchedule(ctx, stylist.ID, stylist.Schedule); err != nil {
		return nil, err
	}

	return stylist, nil
}

// GetByID получает мастера по ID в рамках одного бизнеса вместе с расписанием
func (r *Repository) GetByID(ctx context.Context, businessID, id int64) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("stylists").
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var stylist domain.Stylist
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stylist.ID,
		&stylist.BusinessID,
		&stylist.Name,
		&stylist.IsActive,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan stylist: %v", ErrScanRow, err)
	}

	stylist.CreatedAt = createdAt.Time
	stylist.UpdatedAt = updatedAt.Time

	if err := r.loadSchedule(ctx, &stylist); err != nil {
		return nil, err
	}

	return &stylist, nil
}

// ReplaceSchedule полностью заменяет недельное расписание мастера
// Расписание никогда не патчится частично: старые строки удаляются, новые
// вставляются. Должен вызываться внутри транзакции
func (r *Repository) ReplaceSchedule(ctx context.Context, stylistID int64, entries []domain.ScheduleEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("stylist_schedules").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceSchedule - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceSchedule - delete old schedule: %v", ErrExecQuery, err)
	}

	return r.insertSchedule(ctx, stylistID, entries)
}

func (r *Repository) insertSchedule(ctx context.Context, stylistID int64, entries []domain.ScheduleEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for i := range entries {
		entry := &entries[i]
		entry.StylistID = stylistID

		query, args, err := psqlbuilder.Insert("stylist_schedules").
			Columns("stylist_id", "day_of_week", "is_working", "start_time", "end_time").
			Values(stylistID, entry.DayOfWeek, entry.IsWorking, entry.StartTime, entry.EndTime).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertSchedule - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
			return fmt.Errorf("%w: insertSchedule - execute insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// loadSchedule загружает недельное расписание мастера
func (r *Repository) loadSchedule(ctx context.Context, stylist *domain.Stylist) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"stylist_id",
		"day_of_week",
		"is_working",
		"start_time",
		"end_time",
	).
		From("stylist_schedules").
		Where(squirrel.Eq{"stylist_id": stylist.ID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSchedule - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.StylistID, &e.DayOfWeek, &e.IsWorking, &e.StartTime, &e.EndTime); err != nil {
			return fmt.Errorf("%w: loadSchedule - scan entry: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSchedule - rows error: %v", ErrScanRow, err)
	}

	stylist.Schedule = entries
	return nil
}
