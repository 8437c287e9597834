package models

import (
	"errors"
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи персоналом
type UpdateStatusRequest struct {
	BusinessID   int64   `json:"-"`
	Status       string  `json:"status"`
	CancelReason *string `json:"cancelReason,omitempty"`
}

// ListAppointmentsRequest запрос на получение записей бизнеса с фильтрацией
type ListAppointmentsRequest struct {
	BusinessID      int64      `json:"-"`
	StylistID       *int64     `json:"stylistId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.StylistAppointmentsFilter, error) {
	filter := domain.StylistAppointmentsFilter{
		BusinessID:      r.BusinessID,
		StylistID:       r.StylistID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentServiceResponse snapshot-строка услуги внутри записи
type AppointmentServiceResponse struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID               int64                        `json:"id"`
	BusinessID       int64                        `json:"businessId"`
	ClientID         int64                        `json:"clientId"`
	StylistID        int64                        `json:"stylistId"`
	Date             string                       `json:"date"`      // "2025-10-15"
	StartTime        string                       `json:"startTime"` // "10:00"
	EndTime          string                       `json:"endTime"`   // "11:30"
	DurationMinutes  int                          `json:"durationMinutes"`
	Services         []AppointmentServiceResponse `json:"services"`
	TotalPrice       float64                      `json:"totalPrice"`
	Status           string                       `json:"status"`
	BookingReference string                       `json:"bookingReference"`

	DepositStatus      string     `json:"depositStatus"`
	DepositAmount      float64    `json:"depositAmount"`
	PaymentDeadline    *time.Time `json:"paymentDeadline,omitempty"`
	PaymentSubmittedAt *time.Time `json:"paymentSubmittedAt,omitempty"`
	PaymentConfirmedAt *time.Time `json:"paymentConfirmedAt,omitempty"`

	CancelReason *string `json:"cancelReason,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	services := make([]AppointmentServiceResponse, len(a.Services))
	for i, s := range a.Services {
		services[i] = AppointmentServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		}
	}

	return &AppointmentResponse{
		ID:               a.ID,
		BusinessID:       a.BusinessID,
		ClientID:         a.ClientID,
		StylistID:        a.StylistID,
		Date:             a.RequestedAt.Format(domain.DateFormat),
		StartTime:        a.RequestedAt.Format(domain.TimeFormat),
		EndTime:          a.EndsAt().Format(domain.TimeFormat),
		DurationMinutes:  a.DurationMinutes,
		Services:         services,
		TotalPrice:       a.TotalPrice,
		Status:           string(a.Status),
		BookingReference: a.BookingReference,

		DepositStatus:      string(a.DepositStatus),
		DepositAmount:      a.DepositAmount,
		PaymentDeadline:    a.PaymentDeadline,
		PaymentSubmittedAt: a.PaymentSubmittedAt,
		PaymentConfirmedAt: a.PaymentConfirmedAt,

		CancelReason: a.CancelReason,
		Notes:        a.Notes,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в response
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	responses := make([]*AppointmentResponse, len(appts))
	for i, a := range appts {
		responses[i] = FromDomainAppointment(a)
	}
	return &AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}
