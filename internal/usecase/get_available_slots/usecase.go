package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	businessRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/business"
	stylistRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/stylist"
)

// UseCase use case для получения слотов публичной страницы бронирования
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	stylistRepo     StylistRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	stylistRepo StylistRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		stylistRepo:     stylistRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
// Результат - ВСЕ слоты дня в хронологическом порядке, включая недоступные;
// проверка доступности здесь advisory, авторитетная проверка выполняется
// повторно при создании записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: slug=%s, stylist=%d, date=%s, duration=%d",
		req.Slug, req.StylistID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем бизнес по slug
	business, err := uc.businessRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business slug=%s not found", req.Slug)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("GetAvailableSlots: business slug=%s is inactive", req.Slug)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем мастера
	stylist, err := uc.stylistRepo.GetByID(ctx, business.ID, req.StylistID)
	if err != nil {
		if errors.Is(err, stylistRepo.ErrStylistNotFound) {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d not found in business id=%d", req.StylistID, business.ID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	if !stylist.IsActive {
		uc.logger.Warn("GetAvailableSlots: stylist id=%d is inactive", req.StylistID)
		return nil, ErrStylistNotFound
	}

	// 5. Разрешаем рабочее окно: расписание мастера ЗАМЕЩАЕТ часы бизнеса
	window := domain.ResolveWorkingWindow(
		business.HoursForDay(req.Date.Weekday()),
		stylist.ScheduleForDay(req.Date.Weekday()),
	)
	if !window.Open {
		uc.logger.Info("GetAvailableSlots: closed window for stylist=%d on %s",
			req.StylistID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:            req.Date,
			StylistID:       req.StylistID,
			DurationMinutes: req.DurationMinutes,
			Slots:           []Slot{},
		}, nil
	}

	// 6. Получаем записи мастера на эту дату для проверки пересечений
	existing, err := uc.appointmentRepo.GetByStylistAndDate(ctx, req.StylistID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты с разметкой доступности
	slots, err := generateSlots(window, req.DurationMinutes, req.Date, now, existing)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for stylist=%d on %s",
		len(slots), req.StylistID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		StylistID:       req.StylistID,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}
