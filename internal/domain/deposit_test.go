package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkomnin/SBS-BookingService/pkg/ptr"
)

func TestDepositPolicy_Calculate_NotRequired(t *testing.T) {
	policy := DepositPolicy{Required: false}

	terms := policy.Calculate(100, time.Now())

	require.False(t, terms.Required)
	require.Zero(t, terms.Amount)
	require.True(t, terms.Deadline.IsZero())
}

func TestDepositPolicy_Calculate_FixedCappedAtTotal(t *testing.T) {
	startsAt := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	policy := DepositPolicy{
		Required:      true,
		Type:          DepositTypeFixed,
		FixedAmount:   ptr.Ptr(50.0),
		DeadlineHours: 24,
	}

	terms := policy.Calculate(30, startsAt)

	require.True(t, terms.Required)
	require.Equal(t, 30.0, terms.Amount, "fixed deposit must be capped at the booking total")
	require.Equal(t, startsAt.Add(-24*time.Hour), terms.Deadline)

	terms = policy.Calculate(200, startsAt)
	require.Equal(t, 50.0, terms.Amount)
}

func TestDepositPolicy_Calculate_PercentageRounding(t *testing.T) {
	startsAt := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	policy := DepositPolicy{
		Required:      true,
		Type:          DepositTypePercentage,
		Percentage:    25,
		DeadlineHours: 48,
	}

	// 33.33 * 25% = 8.3325 -> 8.33
	terms := policy.Calculate(33.33, startsAt)
	require.Equal(t, 8.33, terms.Amount)
	require.Equal(t, startsAt.Add(-48*time.Hour), terms.Deadline)

	// 42.50 * 25% = 10.625 -> 10.63 (half away from zero)
	terms = policy.Calculate(42.50, startsAt)
	require.Equal(t, 10.63, terms.Amount)
}

func TestDepositPolicy_Calculate_PastDeadlineIsValid(t *testing.T) {
	// Запись через час при дедлайне за 24 часа - дедлайн уже в прошлом
	startsAt := time.Now().Add(time.Hour)
	policy := DepositPolicy{
		Required:      true,
		Type:          DepositTypeFixed,
		FixedAmount:   ptr.Ptr(20.0),
		DeadlineHours: 24,
	}

	terms := policy.Calculate(100, startsAt)

	require.True(t, terms.Required)
	require.True(t, terms.Deadline.Before(time.Now()))
}

func pendingDepositAppointment(deadline time.Time) *Appointment {
	return &Appointment{
		ID:              1,
		Status:          StatusPendingDeposit,
		DepositStatus:   DepositPending,
		DepositAmount:   25,
		PaymentDeadline: &deadline,
	}
}

func TestAppointment_SubmitDeposit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	appt := pendingDepositAppointment(now.Add(time.Hour))

	require.NoError(t, appt.SubmitDeposit(now))
	require.Equal(t, DepositSubmitted, appt.DepositStatus)
	require.Equal(t, StatusPendingDeposit, appt.Status)
	require.NotNil(t, appt.PaymentSubmittedAt)
	require.Equal(t, now, *appt.PaymentSubmittedAt)

	// Повторная отправка - конфликт, не no-op
	require.ErrorIs(t, appt.SubmitDeposit(now), ErrDepositNotPending)
}

func TestAppointment_SubmitDeposit_NotRequired(t *testing.T) {
	appt := &Appointment{Status: StatusConfirmed, DepositStatus: DepositNotRequired}

	require.ErrorIs(t, appt.SubmitDeposit(time.Now()), ErrDepositNotRequired)
}

func TestAppointment_ConfirmDeposit_FromAnyState(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, from := range []DepositStatus{DepositPending, DepositSubmitted, DepositExpired, DepositWaived} {
		appt := pendingDepositAppointment(now.Add(time.Hour))
		appt.DepositStatus = from

		require.NoError(t, appt.ConfirmDeposit(now), "confirm from %s", from)
		require.Equal(t, DepositConfirmed, appt.DepositStatus)
		require.Equal(t, StatusConfirmed, appt.Status)
		require.NotNil(t, appt.PaymentConfirmedAt)
		require.NotNil(t, appt.ConfirmedAt)
	}
}

func TestAppointment_ConfirmDeposit_StampsConfirmedAtOnce(t *testing.T) {
	first := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	appt := pendingDepositAppointment(first.Add(48 * time.Hour))
	require.NoError(t, appt.ConfirmDeposit(first))
	require.NoError(t, appt.ConfirmDeposit(second))

	require.Equal(t, first, *appt.ConfirmedAt, "ConfirmedAt must keep the first confirmation instant")
	require.Equal(t, second, *appt.PaymentConfirmedAt)
}

func TestAppointment_WaiveDeposit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	appt := pendingDepositAppointment(now.Add(time.Hour))

	require.NoError(t, appt.WaiveDeposit(now))
	require.Equal(t, DepositWaived, appt.DepositStatus)
	require.Equal(t, StatusConfirmed, appt.Status)
	require.Nil(t, appt.PaymentConfirmedAt, "waiving is not a payment confirmation")
}

func TestAppointment_RejectDeposit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	appt := pendingDepositAppointment(now.Add(time.Hour))
	appt.DepositStatus = DepositSubmitted
	reason := "платёж не найден"

	require.NoError(t, appt.RejectDeposit(&reason))
	require.Equal(t, DepositExpired, appt.DepositStatus)
	require.Equal(t, StatusCancelled, appt.Status)
	require.Equal(t, &reason, appt.CancelReason)
}

func TestAppointment_AutoExpireDeposit(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expires pending past deadline", func(t *testing.T) {
		appt := pendingDepositAppointment(now.Add(-time.Minute))

		require.NoError(t, appt.AutoExpireDeposit(now))
		require.Equal(t, StatusAutoCancelled, appt.Status)
		require.Equal(t, DepositExpired, appt.DepositStatus)
		require.Equal(t, now, *appt.AutoCancelledAt)
	})

	t.Run("expires submitted past deadline", func(t *testing.T) {
		appt := pendingDepositAppointment(now.Add(-time.Minute))
		appt.DepositStatus = DepositSubmitted

		require.NoError(t, appt.AutoExpireDeposit(now))
		require.Equal(t, StatusAutoCancelled, appt.Status)
	})

	t.Run("deadline not yet passed", func(t *testing.T) {
		appt := pendingDepositAppointment(now.Add(time.Minute))

		require.ErrorIs(t, appt.AutoExpireDeposit(now), ErrDepositNotExpirable)
		require.Equal(t, StatusPendingDeposit, appt.Status)
	})

	t.Run("confirmed deposit is not expirable", func(t *testing.T) {
		appt := pendingDepositAppointment(now.Add(-time.Minute))
		appt.DepositStatus = DepositConfirmed

		require.ErrorIs(t, appt.AutoExpireDeposit(now), ErrDepositNotExpirable)
	})

	t.Run("non pending_deposit status is not expirable", func(t *testing.T) {
		appt := pendingDepositAppointment(now.Add(-time.Minute))
		appt.Status = StatusConfirmed

		require.ErrorIs(t, appt.AutoExpireDeposit(now), ErrDepositNotExpirable)
	})
}

func TestRound2(t *testing.T) {
	require.Equal(t, 10.63, Round2(10.625))
	require.Equal(t, 2.5, Round2(2.5001))
	require.Equal(t, 10.0, Round2(10))
	require.Equal(t, -10.63, Round2(-10.625))
}
