package domain

import (
	"time"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending        AppointmentStatus = "pending"
	StatusPendingDeposit AppointmentStatus = "pending_deposit"
	StatusConfirmed      AppointmentStatus = "confirmed"
	StatusArrived        AppointmentStatus = "arrived"
	StatusInProgress     AppointmentStatus = "in_progress"
	StatusCompleted      AppointmentStatus = "completed"
	StatusCancelled      AppointmentStatus = "cancelled"
	StatusNoShow         AppointmentStatus = "no_show"
	StatusAutoCancelled  AppointmentStatus = "auto_cancelled"
)

// statusTransitions staff-driven lifecycle transitions
// Deposit-driven transitions (pending_deposit -> confirmed/cancelled/auto_cancelled)
// are governed by the deposit state machine, not by this table
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:        {StatusConfirmed, StatusArrived, StatusCancelled, StatusNoShow},
	StatusPendingDeposit: {StatusConfirmed, StatusCancelled, StatusNoShow, StatusAutoCancelled},
	StatusConfirmed:      {StatusArrived, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusArrived:        {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress:     {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusNoShow:         {},
	StatusAutoCancelled:  {},
}

// ParseAppointmentStatus validates a raw status string against the closed status set
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	switch status {
	case StatusPending, StatusPendingDeposit, StatusConfirmed, StatusArrived,
		StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow, StatusAutoCancelled:
		return status, true
	default:
		return "", false
	}
}

// AppointmentService denormalized snapshot of a service attached to an appointment
// Name, price and duration are copied at booking time so later edits of the
// service catalog never alter historical appointments
type AppointmentService struct {
	ID              int64
	AppointmentID   int64
	ServiceID       int64
	Name            string
	Price           float64
	DurationMinutes int
}

// Appointment represents a salon appointment in the system
type Appointment struct {
	ID         int64
	BusinessID int64
	ClientID   int64
	StylistID  int64

	RequestedAt     time.Time // start instant
	DurationMinutes int       // sum of service durations; end = RequestedAt + duration
	Services        []AppointmentService
	TotalPrice      float64

	Status           AppointmentStatus
	BookingReference string

	DepositStatus      DepositStatus
	DepositAmount      float64
	PaymentDeadline    *time.Time
	PaymentSubmittedAt *time.Time
	PaymentConfirmedAt *time.Time
	ConfirmedAt        *time.Time
	AutoCancelledAt    *time.Time
	CancelReason       *string

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the end instant of the appointment interval
func (a *Appointment) EndsAt() time.Time {
	return a.RequestedAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Interval returns the half-open time interval occupied by the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.RequestedAt, End: a.EndsAt()}
}

// BlocksSlot returns true if the appointment occupies its time slot
// Cancelled, auto-cancelled and no-show appointments free the slot
func (a *Appointment) BlocksSlot() bool {
	return a.Status != StatusCancelled &&
		a.Status != StatusNoShow &&
		a.Status != StatusAutoCancelled
}

// IsActive returns true if the appointment is in an active state
func (a *Appointment) IsActive() bool {
	return a.BlocksSlot()
}

// IsCancelled returns true if the appointment has been cancelled by anyone
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled || a.Status == StatusAutoCancelled
}

// CanTransitionTo reports whether a staff-driven transition to next is allowed
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDeletable returns true while the appointment can still be hard-deleted
// Paid or completed appointments are kept forever
func (a *Appointment) IsDeletable() bool {
	if a.DepositStatus == DepositSubmitted || a.DepositStatus == DepositConfirmed {
		return false
	}
	return a.Status != StatusCompleted && a.Status != StatusInProgress && a.Status != StatusArrived
}

// StylistAppointmentsFilter фильтр для выборки записей бизнеса
type StylistAppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	StylistID       *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и no-show записи
}
