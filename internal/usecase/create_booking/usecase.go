package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	businessRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/business"
	clientRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/client"
	stylistRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/stylist"
)

// UseCase use case публичного создания записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	businessRepo     BusinessRepository
	stylistRepo      StylistRepository
	serviceRepo      ServiceRepository
	clientRepo       ClientRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	stylistRepo StylistRepository,
	serviceRepo ServiceRepository,
	clientRepo ClientRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		businessRepo:     businessRepo,
		stylistRepo:      stylistRepo,
		serviceRepo:      serviceRepo,
		clientRepo:       clientRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка пересечений, поиск/создание клиента и вставка записи выполняются
// в сериализуемой транзакции: просмотр слотов advisory, авторитетная проверка
// происходит здесь, непосредственно перед коммитом
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slug=%s, stylist=%d, services=%v, date=%s, time=%s",
		req.Slug, req.StylistID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем бизнес по slug
	business, err := uc.businessRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business slug=%s not found", req.Slug)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business slug=%s: %v", req.Slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateBooking: business slug=%s is inactive", req.Slug)
		return nil, ErrBusinessNotFound
	}

	// 4. Получаем все запрошенные услуги; частичное совпадение отклоняется
	services, err := uc.serviceRepo.GetByIDs(ctx, business.ID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if len(services) != len(uniqueIDs(req.ServiceIDs)) {
		uc.logger.Warn("CreateBooking: requested %d services, resolved %d", len(req.ServiceIDs), len(services))
		return nil, ErrServiceNotFound
	}

	// 5. Получаем мастера
	stylist, err := uc.stylistRepo.GetByID(ctx, business.ID, req.StylistID)
	if err != nil {
		if errors.Is(err, stylistRepo.ErrStylistNotFound) {
			uc.logger.Warn("CreateBooking: stylist id=%d not found in business id=%d", req.StylistID, business.ID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateBooking: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}
	if !stylist.IsActive {
		uc.logger.Warn("CreateBooking: stylist id=%d is inactive", req.StylistID)
		return nil, ErrStylistNotFound
	}

	// 6. Считаем длительность, цену и момент начала
	durationMinutes := domain.TotalDuration(services)
	totalPrice := domain.TotalPrice(services)

	requestedAt, err := req.StartTime.OnDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid start time %s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	// 7. Проверяем рабочее окно мастера на эту дату
	window := domain.ResolveWorkingWindow(
		business.HoursForDay(req.Date.Weekday()),
		stylist.ScheduleForDay(req.Date.Weekday()),
	)
	if err := validateWithinWindow(window, req, durationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: window validation failed for stylist=%d: %v", req.StylistID, err)
		return nil, err
	}

	// 8. Применяем депозитную политику бизнеса
	terms := business.DepositPolicy.Calculate(totalPrice, requestedAt)

	// Переменная для хранения результата
	var result *domain.Appointment

	// 9. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Авторитетная проверка пересечений по последнему состоянию БД
		existing, err := uc.appointmentRepo.GetByStylistAndDate(txCtx, req.StylistID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		candidate := domain.Interval{
			Start: requestedAt,
			End:   requestedAt.Add(time.Duration(durationMinutes) * time.Minute),
		}
		if domain.HasConflict(candidate, existing) {
			uc.logger.Warn("CreateBooking: slot conflict for stylist=%d at %s", req.StylistID, requestedAt)
			return ErrSlotNotAvailable
		}

		// 9.2. Находим или лениво создаём клиента
		cl, err := uc.resolveClient(txCtx, business.ID, req)
		if err != nil {
			return err
		}

		// 9.3. Генерируем уникальный booking reference с ограниченным числом попыток
		reference, err := uc.generateReference(txCtx)
		if err != nil {
			return err
		}

		// 9.4. Создаем запись со snapshot-строками услуг
		appt := &domain.Appointment{
			BusinessID:      business.ID,
			ClientID:        cl.ID,
			StylistID:       req.StylistID,
			RequestedAt:     requestedAt,
			DurationMinutes: durationMinutes,
			TotalPrice:      totalPrice,
			Services:        snapshotServices(services),
			Status:          domain.StatusConfirmed,
			DepositStatus:   domain.DepositNotRequired,

			BookingReference: reference,
			Notes:            req.Notes,
		}

		if terms.Required {
			appt.Status = domain.StatusPendingDeposit
			appt.DepositStatus = domain.DepositPending
			appt.DepositAmount = terms.Amount
			deadline := terms.Deadline
			appt.PaymentDeadline = &deadline
		} else {
			confirmedAt := now
			appt.ConfirmedAt = &confirmedAt
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d, reference=%s",
		result.ID, result.BookingReference)

	// 10. Уведомляем салон о новой записи (best-effort, вне транзакции:
	// запись уже сохранена и является источником истины)
	uc.notifyNewBooking(ctx, business, result, req)

	response := &Response{
		AppointmentID:    result.ID,
		BookingReference: result.BookingReference,
		Status:           string(result.Status),
		RequestedAt:      result.RequestedAt,
		DurationMinutes:  result.DurationMinutes,
		TotalPrice:       result.TotalPrice,
		DepositRequired:  terms.Required,
		DepositAmount:    result.DepositAmount,
		PaymentDeadline:  result.PaymentDeadline,
	}
	if terms.Required {
		response.PaymentInstructions = business.PaymentInstructions
	}

	return response, nil
}

// resolveClient ищет клиента бизнеса по телефону или email и лениво создаёт
// нового, если совпадений нет
func (uc *UseCase) resolveClient(ctx context.Context, businessID int64, req *Request) (*domain.Client, error) {
	found, err := uc.clientRepo.FindByPhoneOrEmail(ctx, businessID, req.Phone, req.Email)
	if err == nil {
		uc.logger.Info("CreateBooking: resolved existing client id=%d", found.ID)
		return found, nil
	}
	if !errors.Is(err, clientRepo.ErrClientNotFound) {
		uc.logger.Error("CreateBooking: failed to find client: %v", err)
		return nil, fmt.Errorf("%w: failed to find client: %v", ErrInternal, err)
	}

	created, err := uc.clientRepo.Create(ctx, &domain.Client{
		BusinessID: businessID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Email:      req.Email,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create client: %v", err)
		return nil, fmt.Errorf("%w: failed to create client: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created new client id=%d", created.ID)
	return created, nil
}

// generateReference генерирует booking reference, свободный от коллизий,
// с ограниченным числом попыток
func (uc *UseCase) generateReference(ctx context.Context) (string, error) {
	for attempt := 0; attempt < domain.MaxReferenceAttempts; attempt++ {
		reference, err := domain.GenerateBookingReference()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInternal, err)
		}

		taken, err := uc.appointmentRepo.ExistsByReference(ctx, reference)
		if err != nil {
			return "", fmt.Errorf("%w: failed to check reference: %v", ErrInternal, err)
		}
		if !taken {
			return reference, nil
		}

		uc.logger.Warn("CreateBooking: reference collision on attempt %d", attempt+1)
	}

	return "", ErrReferenceGeneration
}

// notifyNewBooking создает уведомление салону о новой записи
// Ошибки логируются и проглатываются: уведомления advisory и не входят в
// контракт корректности бронирования
func (uc *UseCase) notifyNewBooking(ctx context.Context, business *domain.Business, appt *domain.Appointment, req *Request) {
	apptID := appt.ID
	_, err := uc.notificationRepo.Create(ctx, &domain.Notification{
		BusinessID:    business.ID,
		AppointmentID: &apptID,
		Type:          domain.NotificationBookingNew,
		Title:         "Новая запись",
		Message: fmt.Sprintf("%s %s, %s в %s, %s",
			req.FirstName, req.LastName,
			appt.RequestedAt.Format(domain.DateFormat),
			appt.RequestedAt.Format(domain.TimeFormat),
			appt.BookingReference),
		IsUrgent: false,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create notification for appointment id=%d: %v", appt.ID, err)
	}
}

// snapshotServices копирует имя, цену и длительность услуг в snapshot-строки
// записи; последующие правки каталога не меняют историю
func snapshotServices(services []*domain.Service) []domain.AppointmentService {
	snapshot := make([]domain.AppointmentService, len(services))
	for i, svc := range services {
		snapshot[i] = domain.AppointmentService{
			ServiceID:       svc.ID,
			Name:            svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		}
	}
	return snapshot
}

// uniqueIDs убирает дубликаты из списка ID, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
