package domain

import (
	"time"

	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// BusinessHours opening window of a business for one day of the week
type BusinessHours struct {
	DayOfWeek int // 0 = Sunday ... 6 = Saturday, matching time.Weekday
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Business represents a tenant (salon) in the system
// Slug is globally unique and immutable after creation; it forms the public
// booking page URL
type Business struct {
	ID       int64
	Name     string
	Slug     string
	IsActive bool

	Hours []BusinessHours // 7 entries, one per weekday

	DepositPolicy       DepositPolicy
	PaymentInstructions *string // bank transfer details shown to customers

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursForDay returns the business-wide opening window for the given weekday
// A missing entry means the business is closed that day
func (b *Business) HoursForDay(day time.Weekday) BusinessHours {
	for _, h := range b.Hours {
		if h.DayOfWeek == int(day) {
			return h
		}
	}
	return BusinessHours{DayOfWeek: int(day), IsOpen: false}
}

// WorkingWindow resolved bookable window for a stylist on a specific weekday
type WorkingWindow struct {
	Open  bool
	Start types.TimeString
	End   types.TimeString
}

// ResolveWorkingWindow derives the bookable window from business hours and an
// optional stylist schedule entry. A stylist entry REPLACES the business window
// entirely (it does not intersect it): a non-working stylist day yields a closed
// window even when the business is open, and vice versa
func ResolveWorkingWindow(businessHours BusinessHours, stylistEntry *ScheduleEntry) WorkingWindow {
	if stylistEntry != nil {
		if !stylistEntry.IsWorking {
			return WorkingWindow{Open: false}
		}
		return WorkingWindow{Open: true, Start: stylistEntry.StartTime, End: stylistEntry.EndTime}
	}

	if !businessHours.IsOpen {
		return WorkingWindow{Open: false}
	}
	return WorkingWindow{Open: true, Start: businessHours.OpenTime, End: businessHours.CloseTime}
}
