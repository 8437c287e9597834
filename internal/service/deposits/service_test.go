package deposits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	apptRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/appointment"
	"github.com/dkomnin/SBS-BookingService/internal/service/deposits/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	updated     *domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, businessID, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.BusinessID != businessID || f.appointment.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	clone := *f.appointment
	return &clone, nil
}

func (f *fakeAppointmentRepo) GetByReference(_ context.Context, id int64, reference string) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != id || f.appointment.BookingReference != reference {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	clone := *f.appointment
	return &clone, nil
}

func (f *fakeAppointmentRepo) UpdateDeposit(_ context.Context, appt *domain.Appointment) error {
	f.updated = appt
	return nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.notifications = append(f.notifications, n)
	return n, nil
}

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func pendingAppointment() *domain.Appointment {
	deadline := now.Add(2 * time.Hour)
	return &domain.Appointment{
		ID:               10,
		BusinessID:       1,
		Status:           domain.StatusPendingDeposit,
		DepositStatus:    domain.DepositPending,
		DepositAmount:    25,
		PaymentDeadline:  &deadline,
		BookingReference: "BK-ABC234",
	}
}

func newFixture(appt *domain.Appointment) (*Service, *fakeAppointmentRepo, *fakeNotificationRepo) {
	appointments := &fakeAppointmentRepo{appointment: appt}
	notifications := &fakeNotificationRepo{}
	svc := NewService(appointments, notifications, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = &fakeTimeProvider{now: now}
	return svc, appointments, notifications
}

func TestSubmit_PendingDeposit(t *testing.T) {
	svc, appointments, notifications := newFixture(pendingAppointment())

	resp, err := svc.Submit(context.Background(), &models.SubmitDepositRequest{
		AppointmentID:    10,
		BookingReference: "BK-ABC234",
	})
	require.NoError(t, err)

	require.Equal(t, string(domain.DepositSubmitted), resp.DepositStatus)
	require.Equal(t, string(domain.StatusPendingDeposit), resp.Status)
	require.NotNil(t, resp.PaymentSubmittedAt)
	require.Equal(t, now, *resp.PaymentSubmittedAt)
	require.NotNil(t, appointments.updated)

	// Салон получает срочное уведомление о заявленной оплате
	require.Len(t, notifications.notifications, 1)
	require.Equal(t, domain.NotificationDepositSubmitted, notifications.notifications[0].Type)
	require.True(t, notifications.notifications[0].IsUrgent)
}

func TestSubmit_WrongReferenceLooksLikeMissing(t *testing.T) {
	svc, _, _ := newFixture(pendingAppointment())

	_, err := svc.Submit(context.Background(), &models.SubmitDepositRequest{
		AppointmentID:    10,
		BookingReference: "BK-XYZ789",
	})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSubmit_MalformedReference(t *testing.T) {
	svc, _, _ := newFixture(pendingAppointment())

	_, err := svc.Submit(context.Background(), &models.SubmitDepositRequest{
		AppointmentID:    10,
		BookingReference: "nonsense",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmit_DuplicateSubmissionConflicts(t *testing.T) {
	appt := pendingAppointment()
	appt.DepositStatus = domain.DepositSubmitted
	svc, _, notifications := newFixture(appt)

	_, err := svc.Submit(context.Background(), &models.SubmitDepositRequest{
		AppointmentID:    10,
		BookingReference: "BK-ABC234",
	})
	require.ErrorIs(t, err, ErrDepositNotPending)
	require.Empty(t, notifications.notifications)
}

func TestSubmit_ExpiredDepositConflicts(t *testing.T) {
	// Гонка с авто-отменой: реконсайлер успел первым
	appt := pendingAppointment()
	appt.Status = domain.StatusAutoCancelled
	appt.DepositStatus = domain.DepositExpired
	svc, _, _ := newFixture(appt)

	_, err := svc.Submit(context.Background(), &models.SubmitDepositRequest{
		AppointmentID:    10,
		BookingReference: "BK-ABC234",
	})
	require.ErrorIs(t, err, ErrDepositNotPending)
}

func TestResolve_Confirm(t *testing.T) {
	appt := pendingAppointment()
	appt.DepositStatus = domain.DepositSubmitted
	svc, appointments, _ := newFixture(appt)

	resp, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        ActionConfirm,
	})
	require.NoError(t, err)

	require.Equal(t, string(domain.DepositConfirmed), resp.DepositStatus)
	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.PaymentConfirmedAt)
	require.NotNil(t, appointments.updated.ConfirmedAt)
}

func TestResolve_ConfirmDisputedExpired(t *testing.T) {
	// Клиент доказал оплату после авто-отмены - салон может подтвердить
	appt := pendingAppointment()
	appt.Status = domain.StatusAutoCancelled
	appt.DepositStatus = domain.DepositExpired
	svc, _, _ := newFixture(appt)

	resp, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        ActionConfirm,
	})
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestResolve_Reject(t *testing.T) {
	appt := pendingAppointment()
	appt.DepositStatus = domain.DepositSubmitted
	svc, _, _ := newFixture(appt)
	reason := "платёж не найден"

	resp, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        ActionReject,
		Reason:        &reason,
	})
	require.NoError(t, err)

	require.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Equal(t, string(domain.DepositExpired), resp.DepositStatus)
}

func TestResolve_Waive(t *testing.T) {
	svc, _, _ := newFixture(pendingAppointment())

	resp, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        ActionWaive,
	})
	require.NoError(t, err)

	require.Equal(t, string(domain.DepositWaived), resp.DepositStatus)
	require.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.Nil(t, resp.PaymentConfirmedAt)
}

func TestResolve_NotRequiredRejected(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusConfirmed
	appt.DepositStatus = domain.DepositNotRequired
	svc, _, _ := newFixture(appt)

	_, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        ActionConfirm,
	})
	require.ErrorIs(t, err, ErrDepositNotRequired)
}

func TestResolve_UnknownAction(t *testing.T) {
	svc, _, _ := newFixture(pendingAppointment())

	_, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    1,
		AppointmentID: 10,
		Action:        "approve",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolve_ScopedToBusiness(t *testing.T) {
	svc, _, _ := newFixture(pendingAppointment())

	_, err := svc.Resolve(context.Background(), &models.ResolveDepositRequest{
		BusinessID:    2,
		AppointmentID: 10,
		Action:        ActionConfirm,
	})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}
