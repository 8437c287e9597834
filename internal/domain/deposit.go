package domain

import (
	"errors"
	"math"
	"time"
)

// DepositStatus represents the deposit sub-state of an appointment
type DepositStatus string

const (
	DepositNotRequired DepositStatus = "not_required"
	DepositPending     DepositStatus = "pending"
	DepositSubmitted   DepositStatus = "submitted"
	DepositConfirmed   DepositStatus = "confirmed"
	DepositExpired     DepositStatus = "expired"
	DepositWaived      DepositStatus = "waived"
)

// DepositType determines how the deposit amount is computed
type DepositType string

const (
	DepositTypeFixed      DepositType = "fixed"
	DepositTypePercentage DepositType = "percentage"
)

var (
	// ErrDepositNotPending возвращается, когда клиент отправляет подтверждение
	// оплаты, а депозит уже не в статусе pending (повторная отправка или гонка
	// с авто-отменой)
	ErrDepositNotPending = errors.New("domain: deposit is not pending")

	// ErrDepositNotRequired возвращается при действии над депозитом записи,
	// для которой депозит не требуется
	ErrDepositNotRequired = errors.New("domain: deposit is not required for this appointment")

	// ErrDepositNotExpirable возвращается, когда запись не подпадает под
	// условия авто-отмены
	ErrDepositNotExpirable = errors.New("domain: appointment is not eligible for auto-expiry")
)

// DepositPolicy per-business deposit configuration
type DepositPolicy struct {
	Required      bool
	Type          DepositType
	FixedAmount   *float64
	Percentage    float64
	DeadlineHours int
}

// DepositTerms computed deposit requirement for a single booking
type DepositTerms struct {
	Required bool
	Amount   float64
	Deadline time.Time // zero when no deposit is required
}

// Calculate computes the deposit requirement for a booking
// Fixed deposits are capped at the booking total; percentage deposits are
// rounded to 2 decimal places. The payment deadline is DeadlineHours BEFORE the
// appointment start, so a last-minute booking may yield an already-past
// deadline - that is a valid degenerate outcome swept by the reconciler
func (p DepositPolicy) Calculate(totalPrice float64, startsAt time.Time) DepositTerms {
	if !p.Required {
		return DepositTerms{}
	}

	var amount float64
	switch p.Type {
	case DepositTypeFixed:
		if p.FixedAmount != nil {
			amount = math.Min(*p.FixedAmount, totalPrice)
		}
	case DepositTypePercentage:
		amount = Round2(totalPrice * p.Percentage / 100)
	}

	return DepositTerms{
		Required: true,
		Amount:   amount,
		Deadline: startsAt.Add(-time.Duration(p.DeadlineHours) * time.Hour),
	}
}

// Round2 rounds a monetary amount to 2 decimal places, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Deposit state machine.
//
// pending_deposit/pending    --submit-->  pending_deposit/submitted
// pending_deposit/*          --confirm--> confirmed/confirmed
// pending_deposit/*          --reject-->  cancelled/expired
// pending_deposit/*          --waive-->   confirmed/waived
// pending_deposit/{pending,submitted} + deadline passed --auto-expire--> auto_cancelled/expired
//
// Appointments of businesses without a deposit requirement bypass the machine
// entirely (not_required/confirmed).

// SubmitDeposit records the customer's claim that payment was sent
// Fails if the deposit is not currently pending - a duplicate submission or a
// race with the reconciler must surface as a conflict, not a silent no-op
func (a *Appointment) SubmitDeposit(now time.Time) error {
	if a.DepositStatus == DepositNotRequired {
		return ErrDepositNotRequired
	}
	if a.DepositStatus != DepositPending {
		return ErrDepositNotPending
	}

	a.DepositStatus = DepositSubmitted
	a.PaymentSubmittedAt = &now
	return nil
}

// ConfirmDeposit marks the deposit as verified by the salon
// Allowed from any deposit state; ConfirmedAt is stamped only on the first
// transition into the confirmed status
func (a *Appointment) ConfirmDeposit(now time.Time) error {
	if a.DepositStatus == DepositNotRequired {
		return ErrDepositNotRequired
	}

	a.DepositStatus = DepositConfirmed
	a.PaymentConfirmedAt = &now
	a.markConfirmed(now)
	return nil
}

// WaiveDeposit drops the deposit requirement for this appointment
func (a *Appointment) WaiveDeposit(now time.Time) error {
	if a.DepositStatus == DepositNotRequired {
		return ErrDepositNotRequired
	}

	a.DepositStatus = DepositWaived
	a.markConfirmed(now)
	return nil
}

// RejectDeposit cancels the appointment because the salon rejected the payment
func (a *Appointment) RejectDeposit(reason *string) error {
	if a.DepositStatus == DepositNotRequired {
		return ErrDepositNotRequired
	}

	a.DepositStatus = DepositExpired
	a.Status = StatusCancelled
	a.CancelReason = reason
	return nil
}

// AutoExpireDeposit applies the reconciler's auto-cancel rule
// Guard: deposit pending or submitted, status pending_deposit, deadline passed
func (a *Appointment) AutoExpireDeposit(now time.Time) error {
	if a.Status != StatusPendingDeposit {
		return ErrDepositNotExpirable
	}
	if a.DepositStatus != DepositPending && a.DepositStatus != DepositSubmitted {
		return ErrDepositNotExpirable
	}
	if a.PaymentDeadline == nil || a.PaymentDeadline.After(now) {
		return ErrDepositNotExpirable
	}

	a.DepositStatus = DepositExpired
	a.Status = StatusAutoCancelled
	a.AutoCancelledAt = &now
	return nil
}

// markConfirmed moves the appointment into the confirmed status, stamping
// ConfirmedAt exactly once
func (a *Appointment) markConfirmed(now time.Time) {
	a.Status = StatusConfirmed
	if a.ConfirmedAt == nil {
		a.ConfirmedAt = &now
	}
}
