package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	apptRepo "github.com/dkomnin/SBS-BookingService/internal/infra/storage/appointment"
	"github.com/dkomnin/SBS-BookingService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAppointmentRepo struct {
	appointment   *domain.Appointment
	statusUpdates []domain.AppointmentStatus
	deleted       bool
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, businessID, id int64) (*domain.Appointment, error) {
	if f.appointment == nil || f.appointment.BusinessID != businessID || f.appointment.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	clone := *f.appointment
	return &clone, nil
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, _ domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	if f.appointment == nil {
		return nil, nil
	}
	return []*domain.Appointment{f.appointment}, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, _ int64, status domain.AppointmentStatus, _ *string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	f.appointment.Status = status
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, _, _ int64) error {
	f.deleted = true
	return nil
}

type fakeClientRepo struct {
	increments []float64
}

func (f *fakeClientRepo) IncrementVisitStats(_ context.Context, _ int64, spent float64) error {
	f.increments = append(f.increments, spent)
	return nil
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            10,
		BusinessID:    1,
		ClientID:      5,
		StylistID:     7,
		RequestedAt:   time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		Status:        domain.StatusConfirmed,
		DepositStatus: domain.DepositNotRequired,
		TotalPrice:    60,
	}
}

func newFixture(appt *domain.Appointment) (*Service, *fakeAppointmentRepo, *fakeClientRepo) {
	appointments := &fakeAppointmentRepo{appointment: appt}
	clients := &fakeClientRepo{}
	svc := NewService(appointments, clients, passthroughTxManager{}, nopLogger{})
	return svc, appointments, clients
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	svc, appointments, _ := newFixture(confirmedAppointment())

	resp, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "arrived",
	})
	require.NoError(t, err)
	require.Equal(t, "arrived", resp.Status)
	require.Equal(t, []domain.AppointmentStatus{domain.StatusArrived}, appointments.statusUpdates)
}

func TestUpdateStatus_ForbiddenTransition(t *testing.T) {
	appt := confirmedAppointment()
	appt.Status = domain.StatusCompleted
	svc, appointments, clients := newFixture(appt)

	_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "confirmed",
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Empty(t, appointments.statusUpdates)
	require.Empty(t, clients.increments, "terminal status must not trigger side effects")
}

func TestUpdateStatus_CompletedIncrementsClientStatsOnce(t *testing.T) {
	svc, _, clients := newFixture(confirmedAppointment())

	_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "completed",
	})
	require.NoError(t, err)
	require.Equal(t, []float64{60}, clients.increments)

	// Повторный completed отклоняется whitelist'ом - инкремент не дублируется
	_, err = svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "completed",
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Len(t, clients.increments, 1)
}

func TestUpdateStatus_NonCompletedNoSideEffect(t *testing.T) {
	svc, _, clients := newFixture(confirmedAppointment())

	_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "no_show",
	})
	require.NoError(t, err)
	require.Empty(t, clients.increments)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _, _ := newFixture(confirmedAppointment())

	_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 1,
		Status:     "COMPLETED",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_WrongBusinessLooksLikeMissing(t *testing.T) {
	svc, _, _ := newFixture(confirmedAppointment())

	_, err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{
		BusinessID: 2,
		Status:     "arrived",
	})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDelete_UnpaidAppointment(t *testing.T) {
	svc, appointments, _ := newFixture(confirmedAppointment())

	require.NoError(t, svc.Delete(context.Background(), 1, 10))
	require.True(t, appointments.deleted)
}

func TestDelete_PaidAppointmentRejected(t *testing.T) {
	appt := confirmedAppointment()
	appt.DepositStatus = domain.DepositConfirmed
	svc, appointments, _ := newFixture(appt)

	err := svc.Delete(context.Background(), 1, 10)
	require.ErrorIs(t, err, ErrNotDeletable)
	require.False(t, appointments.deleted)
}

func TestDelete_CompletedAppointmentRejected(t *testing.T) {
	appt := confirmedAppointment()
	appt.Status = domain.StatusCompleted
	svc, _, _ := newFixture(appt)

	require.ErrorIs(t, svc.Delete(context.Background(), 1, 10), ErrNotDeletable)
}

func TestGetByID_ScopedToBusiness(t *testing.T) {
	svc, _, _ := newFixture(confirmedAppointment())

	resp, err := svc.GetByID(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), resp.ID)

	_, err = svc.GetByID(context.Background(), 2, 10)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newFixture(confirmedAppointment())

	badStatus := "unknown"
	_, err := svc.List(context.Background(), &models.ListAppointmentsRequest{
		BusinessID: 1,
		Status:     &badStatus,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
