package domain

import "time"

// Client represents a customer of one business
// Identity is resolved by phone (primary) or email, uniquely per business;
// created lazily on first booking when no match is found
type Client struct {
	ID         int64
	BusinessID int64
	FirstName  string
	LastName   string
	Phone      string
	Email      *string

	VisitCount int
	TotalSpent float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name of the client
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
