package business

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

// Repository репозиторий для работы с бизнесами (салонами)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает бизнес по slug вместе с рабочими часами
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

// GetByID получает бизнес по ID вместе с рабочими часами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"slug",
		"is_active",
		"requires_deposit",
		"deposit_type",
		"deposit_fixed_amount",
		"deposit_percentage",
		"deposit_deadline_hours",
		"payment_instructions",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var biz domain.Business
	var depositType sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&biz.ID,
		&biz.Name,
		&biz.Slug,
		&biz.IsActive,
		&biz.DepositPolicy.Required,
		&depositType,
		&biz.DepositPolicy.FixedAmount,
		&biz.DepositPolicy.Percentage,
		&biz.DepositPolicy.DeadlineHours,
		&biz.PaymentInstructions,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan business: %v", ErrScanRow, err)
	}

	if depositType.Valid {
		biz.DepositPolicy.Type = domain.DepositType(depositType.String)
	}
	biz.CreatedAt = createdAt.Time
	biz.UpdatedAt = updatedAt.Time

	if err := r.loadHours(ctx, &biz); err != nil {
		return nil, err
	}

	return &biz, nil
}

// loadHours загружает недельное расписание работы бизнеса
func (r *Repository) loadHours(ctx context.Context, biz *domain.Business) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"day_of_week",
		"is_open",
		"open_time",
		"close_time",
	).
		From("business_hours").
		Where(squirrel.Eq{"business_id": biz.ID}).
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadHours - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var hours []domain.BusinessHours
	for rows.Next() {
		var h domain.BusinessHours
		if err := rows.Scan(&h.DayOfWeek, &h.IsOpen, &h.OpenTime, &h.CloseTime); err != nil {
			return fmt.Errorf("%w: loadHours - scan hours: %v", ErrScanRow, err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadHours - rows error: %v", ErrScanRow, err)
	}

	biz.Hours = hours
	return nil
}
