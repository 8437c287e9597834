package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusConfirmed, StatusArrived, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusArrived, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusPending, StatusConfirmed, true},

		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusConfirmed, false},
		{StatusAutoCancelled, StatusConfirmed, false},
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusArrived, false},
	}

	for _, tt := range tests {
		appt := &Appointment{Status: tt.from}
		require.Equal(t, tt.allowed, appt.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	status, ok := ParseAppointmentStatus("in_progress")
	require.True(t, ok)
	require.Equal(t, StatusInProgress, status)

	_, ok = ParseAppointmentStatus("IN_PROGRESS")
	require.False(t, ok)

	_, ok = ParseAppointmentStatus("unknown")
	require.False(t, ok)
}

func TestAppointment_IsDeletable(t *testing.T) {
	tests := []struct {
		name      string
		status    AppointmentStatus
		deposit   DepositStatus
		deletable bool
	}{
		{"confirmed unpaid", StatusConfirmed, DepositNotRequired, true},
		{"pending deposit", StatusPendingDeposit, DepositPending, true},
		{"cancelled", StatusCancelled, DepositExpired, true},
		{"deposit submitted", StatusPendingDeposit, DepositSubmitted, false},
		{"deposit confirmed", StatusConfirmed, DepositConfirmed, false},
		{"completed", StatusCompleted, DepositNotRequired, false},
		{"in progress", StatusInProgress, DepositNotRequired, false},
		{"arrived", StatusArrived, DepositNotRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &Appointment{Status: tt.status, DepositStatus: tt.deposit}
			require.Equal(t, tt.deletable, appt.IsDeletable())
		})
	}
}

func TestAppointment_EndsAt(t *testing.T) {
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{RequestedAt: start, DurationMinutes: 90}

	require.Equal(t, start.Add(90*time.Minute), appt.EndsAt())
	require.Equal(t, Interval{Start: start, End: start.Add(90 * time.Minute)}, appt.Interval())
}
