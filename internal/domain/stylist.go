package domain

import (
	"time"

	"github.com/dkomnin/SBS-BookingService/pkg/types"
)

// ScheduleEntry weekly working window of a stylist for one day of the week
// Entries are a total override of the business hours for that day: when an
// entry exists it replaces the business window (including IsWorking=false,
// which closes a day the business is open), and when no entry exists the
// business hours apply as-is
type ScheduleEntry struct {
	ID        int64
	StylistID int64
	DayOfWeek int // 0 = Sunday ... 6 = Saturday
	IsWorking bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Stylist belongs to exactly one business
type Stylist struct {
	ID         int64
	BusinessID int64
	Name       string
	IsActive   bool

	Schedule []ScheduleEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleForDay returns the stylist's schedule entry for the given weekday,
// or nil if no entry exists for that day
func (s *Stylist) ScheduleForDay(day time.Weekday) *ScheduleEntry {
	for i := range s.Schedule {
		if s.Schedule[i].DayOfWeek == int(day) {
			return &s.Schedule[i]
		}
	}
	return nil
}

// DefaultSchedule returns the Mon-Sat 09:00-18:00 schedule assigned to newly
// created stylists; Sunday is a non-working day
func DefaultSchedule() []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, 7)
	for day := 0; day < 7; day++ {
		working := day != int(time.Sunday)
		entry := ScheduleEntry{
			DayOfWeek: day,
			IsWorking: working,
		}
		if working {
			entry.StartTime = "09:00"
			entry.EndTime = "18:00"
		}
		entries = append(entries, entry)
	}
	return entries
}
