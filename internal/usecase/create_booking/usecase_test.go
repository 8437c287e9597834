package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	clientRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/client"
	"github.com/dkomnin/SBS-BookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

// passthroughTxManager выполняет функцию без транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	takenRefs int // первые takenRefs проверок reference сообщают о коллизии
	created   *domain.Appointment
	refChecks int
	nextID    int64
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	created := *appt
	created.ID = f.nextID
	f.created = &created
	return &created, nil
}

func (f *fakeAppointmentRepo) GetByStylistAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.Appointment, error) {
	return f.existing, nil
}

func (f *fakeAppointmentRepo) ExistsByReference(_ context.Context, _ string) (bool, error) {
	f.refChecks++
	return f.refChecks <= f.takenRefs, nil
}

type fakeBusinessRepo struct {
	business *domain.Business
}

func (f *fakeBusinessRepo) GetBySlug(_ context.Context, _ string) (*domain.Business, error) {
	return f.business, nil
}

type fakeStylistRepo struct {
	stylist *domain.Stylist
}

func (f *fakeStylistRepo) GetByID(_ context.Context, _, _ int64) (*domain.Stylist, error) {
	return f.stylist, nil
}

type fakeServiceRepo struct {
	services []*domain.Service
}

func (f *fakeServiceRepo) GetByIDs(_ context.Context, _ int64, _ []int64) ([]*domain.Service, error) {
	return f.services, nil
}

type fakeClientRepo struct {
	found   *domain.Client
	created *domain.Client
}

func (f *fakeClientRepo) FindByPhoneOrEmail(_ context.Context, _ int64, _ string, _ *string) (*domain.Client, error) {
	if f.found == nil {
		return nil, clientRepo.ErrClientNotFound
	}
	return f.found, nil
}

func (f *fakeClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	created := *c
	created.ID = 42
	f.created = &created
	return &created, nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.notifications = append(f.notifications, n)
	return n, nil
}

// 10 сентября 2026 - четверг
var testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func depositBusiness() *domain.Business {
	return &domain.Business{
		ID:       1,
		Slug:     "glow-salon",
		IsActive: true,
		Hours: []domain.BusinessHours{
			{DayOfWeek: 4, IsOpen: true, OpenTime: "09:00", CloseTime: "21:00"},
		},
		DepositPolicy: domain.DepositPolicy{
			Required:      true,
			Type:          domain.DepositTypePercentage,
			Percentage:    50,
			DeadlineHours: 24,
		},
		PaymentInstructions: ptr.Ptr("Перевод на карту 1234"),
	}
}

func testStylist() *domain.Stylist {
	return &domain.Stylist{
		ID:         7,
		BusinessID: 1,
		IsActive:   true,
		Schedule: []domain.ScheduleEntry{
			{DayOfWeek: 4, IsWorking: true, StartTime: "10:00", EndTime: "19:00"},
		},
	}
}

func testServices() []*domain.Service {
	return []*domain.Service{
		{ID: 11, Name: "Стрижка", Price: 40, DurationMinutes: 60},
		{ID: 12, Name: "Укладка", Price: 20, DurationMinutes: 30},
	}
}

type fixture struct {
	uc            *UseCase
	appointments  *fakeAppointmentRepo
	clients       *fakeClientRepo
	notifications *fakeNotificationRepo
}

func newFixture(business *domain.Business) *fixture {
	appointments := &fakeAppointmentRepo{nextID: 100}
	clients := &fakeClientRepo{}
	notifications := &fakeNotificationRepo{}

	uc := NewUseCase(
		appointments,
		&fakeBusinessRepo{business: business},
		&fakeStylistRepo{stylist: testStylist()},
		&fakeServiceRepo{services: testServices()},
		clients,
		notifications,
		passthroughTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: testDate.AddDate(0, 0, -2)}

	return &fixture{uc: uc, appointments: appointments, clients: clients, notifications: notifications}
}

func validRequest() *Request {
	return &Request{
		Slug:       "glow-salon",
		ServiceIDs: []int64{11, 12},
		StylistID:  7,
		Date:       testDate,
		StartTime:  "11:00",
		FirstName:  "Мария",
		LastName:   "Иванова",
		Phone:      "+79001234567",
	}
}

func TestExecute_CreatesDepositBooking(t *testing.T) {
	f := newFixture(depositBusiness())

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Equal(t, int64(100), resp.AppointmentID)
	require.True(t, domain.IsValidBookingReference(resp.BookingReference))
	require.Equal(t, string(domain.StatusPendingDeposit), resp.Status)
	require.Equal(t, 90, resp.DurationMinutes)
	require.Equal(t, 60.0, resp.TotalPrice)

	// 50% от 60 = 30, дедлайн за 24 часа до начала
	require.True(t, resp.DepositRequired)
	require.Equal(t, 30.0, resp.DepositAmount)
	require.NotNil(t, resp.PaymentDeadline)
	expectedStart := time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC)
	require.Equal(t, expectedStart.Add(-24*time.Hour), *resp.PaymentDeadline)
	require.NotNil(t, resp.PaymentInstructions)

	// Клиент создан лениво
	require.NotNil(t, f.clients.created)
	require.Equal(t, "Мария", f.clients.created.FirstName)

	// Snapshot услуг скопирован в запись
	created := f.appointments.created
	require.Len(t, created.Services, 2)
	require.Equal(t, "Стрижка", created.Services[0].Name)
	require.Equal(t, domain.DepositPending, created.DepositStatus)

	// Салон уведомлён о новой записи
	require.Len(t, f.notifications.notifications, 1)
	require.Equal(t, domain.NotificationBookingNew, f.notifications.notifications[0].Type)
}

func TestExecute_NoDepositConfirmsImmediately(t *testing.T) {
	business := depositBusiness()
	business.DepositPolicy = domain.DepositPolicy{Required: false}
	f := newFixture(business)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.False(t, resp.DepositRequired)
	require.Nil(t, resp.PaymentDeadline)
	require.Nil(t, resp.PaymentInstructions)

	require.Equal(t, domain.DepositNotRequired, f.appointments.created.DepositStatus)
	require.NotNil(t, f.appointments.created.ConfirmedAt)
}

func TestExecute_SlotConflict(t *testing.T) {
	f := newFixture(depositBusiness())
	f.appointments.existing = []*domain.Appointment{
		{
			Status:          domain.StatusPendingDeposit,
			RequestedAt:     time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
		},
	}

	// Запрошенный интервал 11:00-12:30 пересекает удержанный слот 12:00-13:00
	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotAvailable)
	require.Nil(t, f.appointments.created)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	f := newFixture(depositBusiness())
	f.appointments.existing = []*domain.Appointment{
		{
			Status:          domain.StatusAutoCancelled,
			RequestedAt:     time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
			DurationMinutes: 90,
		},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_PartialServiceMatchRejected(t *testing.T) {
	f := newFixture(depositBusiness())

	req := validRequest()
	req.ServiceIDs = []int64{11, 12, 99}

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ReferenceCollisionRetries(t *testing.T) {
	f := newFixture(depositBusiness())
	f.appointments.takenRefs = 2

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, 3, f.appointments.refChecks)
	require.True(t, domain.IsValidBookingReference(resp.BookingReference))
}

func TestExecute_ReferenceRetriesExhausted(t *testing.T) {
	f := newFixture(depositBusiness())
	f.appointments.takenRefs = domain.MaxReferenceAttempts

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrReferenceGeneration)
	require.Nil(t, f.appointments.created)
}

func TestExecute_ExistingClientReused(t *testing.T) {
	f := newFixture(depositBusiness())
	f.clients.found = &domain.Client{ID: 5, FirstName: "Мария", Phone: "+79001234567"}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.Nil(t, f.clients.created, "no new client when phone matches")
	require.Equal(t, int64(5), f.appointments.created.ClientID)
}

func TestExecute_OutsideWorkingWindow(t *testing.T) {
	f := newFixture(depositBusiness())

	req := validRequest()
	req.StartTime = "18:00" // 18:00 + 90 минут > 19:00

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrOutsideWorkingHours)

	req.StartTime = "09:30" // раньше окна мастера
	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_NonWorkingDay(t *testing.T) {
	f := newFixture(depositBusiness())

	req := validRequest()
	req.Date = testDate.AddDate(0, 0, 3) // воскресенье, записи в расписании нет

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrClosed)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(depositBusiness())

	req := validRequest()
	req.Phone = ""
	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.ServiceIDs = nil
	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.Date = testDate.AddDate(0, 0, -10)
	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidDate)
}
