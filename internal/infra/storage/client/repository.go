package client

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

var clientColumns = []string{
	"id",
	"business_id",
	"first_name",
	"last_name",
	"phone",
	"email",
	"visit_count",
	"total_spent",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с клиентами салона
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает нового клиента
func (r *Repository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns("business_id", "first_name", "last_name", "phone", "email").
		Values(c.BusinessID, c.FirstName, c.LastName, c.Phone, c.Email).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return c, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindByPhoneOrEmail ищет клиента бизнеса по телефону (приоритет) или email
// Возвращает ErrClientNotFound, если совпадений нет - caller создаёт клиента лениво
func (r *Repository) FindByPhoneOrEmail(ctx context.Context, businessID int64, phone string, email *string) (*domain.Client, error) {
	found, err := r.getOne(ctx, squirrel.Eq{"business_id": businessID, "phone": phone})
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return nil, err
	}

	if email == nil || *email == "" {
		return nil, ErrClientNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"business_id": businessID, "email": *email})
}

// IncrementVisitStats увеличивает счётчик визитов и суммарные траты клиента
// Вызывается ровно один раз при переводе записи в completed
func (r *Repository) IncrementVisitStats(ctx context.Context, clientID int64, spent float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("visit_count", squirrel.Expr("visit_count + 1")).
		Set("total_spent", squirrel.Expr("total_spent + ?", spent)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": clientID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementVisitStats - build query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementVisitStats - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementVisitStats - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From("clients").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Client
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.BusinessID,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.Email,
		&c.VisitCount,
		&c.TotalSpent,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan client: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}
