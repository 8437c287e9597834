package domain

import "time"

// NotificationType tag of a notification event
type NotificationType string

const (
	NotificationBookingNew             NotificationType = "booking_new"
	NotificationDepositSubmitted       NotificationType = "deposit_submitted"
	NotificationPaymentDeadlineWarning NotificationType = "payment_deadline_warning"
	NotificationBookingAutoCancelled   NotificationType = "booking_auto_cancelled"
)

// Notification ephemeral event record emitted by the core
// Delivery and display belong to an external collaborator; the core only
// creates rows
type Notification struct {
	ID            int64
	BusinessID    int64
	AppointmentID *int64
	Type          NotificationType
	Title         string
	Message       string
	IsUrgent      bool
	IsRead        bool
	CreatedAt     time.Time
}
