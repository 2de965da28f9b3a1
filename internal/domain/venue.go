package domain

import "time"

// Venue is a physical space events can be scheduled in.
type Venue struct {
	ID          string
	Name        string
	Description string
	Address     string
	City        string
	Capacity    int
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
