package domain

// Slot generation defaults
const (
	// SlotIntervalMinutes fixed step between bookable slot candidates
	SlotIntervalMinutes = 30
)

// Booking reference generation
const (
	// ReferencePrefix prefix of every customer-facing booking reference
	ReferencePrefix = "BK-"

	// ReferenceLength number of random characters after the prefix
	ReferenceLength = 6

	// ReferenceAlphabet excludes visually confusable characters (I, O, 0, 1)
	ReferenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// MaxReferenceAttempts bounded retry on reference collision
	MaxReferenceAttempts = 5
)

// Business validation constants
const (
	MaxNotesLength        = 500
	MaxCancelReasonLength = 500
	MaxNameLength         = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не блокирующих временной слот
// Используется при фильтрации записей для проверки пересечений
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
	StatusAutoCancelled,
}

// ActiveStatuses список статусов активных записей
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusPendingDeposit,
	StatusConfirmed,
	StatusArrived,
	StatusInProgress,
	StatusCompleted,
}
