package models

import "time"

// Request модели

// SubmitDepositRequest запрос клиента на отметку об отправке оплаты
// Авторизуется знанием booking reference, без аккаунта
type SubmitDepositRequest struct {
	AppointmentID    int64  `json:"-"`
	BookingReference string `json:"bookingReference"`
}

// ResolveDepositRequest запрос салона на разрешение судьбы депозита
type ResolveDepositRequest struct {
	BusinessID    int64   `json:"-"`
	AppointmentID int64   `json:"-"`
	Action        string  `json:"action"` // confirm | reject | waive
	Reason        *string `json:"reason,omitempty"`
}

// Response модели

// DepositStateResponse ответ с текущим состоянием депозита и записи
type DepositStateResponse struct {
	AppointmentID      int64      `json:"appointmentId"`
	Status             string     `json:"status"`
	DepositStatus      string     `json:"depositStatus"`
	DepositAmount      float64    `json:"depositAmount"`
	PaymentDeadline    *time.Time `json:"paymentDeadline,omitempty"`
	PaymentSubmittedAt *time.Time `json:"paymentSubmittedAt,omitempty"`
	PaymentConfirmedAt *time.Time `json:"paymentConfirmedAt,omitempty"`
}
