package domain

import "time"

// Service represents a bookable salon service of one business
// Name, price and duration are snapshotted onto appointments at booking time,
// so edits here never rewrite history
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Price           float64
	DurationMinutes int
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDuration returns the summed duration of a set of services in minutes
func TotalDuration(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice returns the summed price of a set of services
func TotalPrice(services []*Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}
