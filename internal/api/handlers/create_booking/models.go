package create_booking

import (
	"time"

	"github.com/dkomnin/SBS-BookingService/internal/domain"
	createBooking "github.com/dkomnin/SBS-BookingService/internal/usecase/create_booking"
	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
	StylistID  int64   `json:"stylistId"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"

	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	AppointmentID    int64   `json:"appointmentId"`
	BookingReference string  `json:"bookingReference"`
	Status           string  `json:"status"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	TotalPrice       float64 `json:"totalPrice"`

	DepositRequired     bool    `json:"depositRequired"`
	DepositAmount       float64 `json:"depositAmount,omitempty"`
	PaymentDeadline     *string `json:"paymentDeadline,omitempty"` // RFC3339
	PaymentInstructions *string `json:"paymentInstructions,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(slug string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Slug:       slug,
		ServiceIDs: r.ServiceIDs,
		StylistID:  r.StylistID,
		Date:       date,
		StartTime:  startTime,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Email:      r.Email,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	response := &BookingResponse{
		AppointmentID:    resp.AppointmentID,
		BookingReference: resp.BookingReference,
		Status:           resp.Status,
		Date:             resp.RequestedAt.Format(domain.DateFormat),
		StartTime:        resp.RequestedAt.Format(domain.TimeFormat),
		DurationMinutes:  resp.DurationMinutes,
		TotalPrice:       resp.TotalPrice,

		DepositRequired:     resp.DepositRequired,
		DepositAmount:       resp.DepositAmount,
		PaymentInstructions: resp.PaymentInstructions,
	}

	if resp.PaymentDeadline != nil {
		deadline := resp.PaymentDeadline.Format(time.RFC3339)
		response.PaymentDeadline = &deadline
	}

	return response
}
