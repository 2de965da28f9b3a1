package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CancellationCutoff is how long before the event starts that tickets can
// still be canceled.
const CancellationCutoff = 24 * time.Hour

// DefaultDurationMin is applied when an event is created without a duration.
const DefaultDurationMin = 120

// Event is a ticketed happening with fixed capacity and schedule.
type Event struct {
	ID               string
	Title            string
	Description      string
	Category         string
	City             string
	Venue            string
	Address          string
	StartsAt         time.Time
	DurationMin      int
	Price            decimal.Decimal
	TotalTickets     int
	TicketsAvailable int
	ImageURL         string
	Active           bool
	VenueID          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAvailable reports whether tickets can currently be sold.
func (e *Event) IsAvailable(now time.Time) bool {
	return e.Active && e.TicketsAvailable > 0 && e.StartsAt.After(now)
}

// CanCancel reports whether tickets for this event are still cancellable.
func (e *Event) CanCancel(now time.Time) bool {
	return e.StartsAt.After(now.Add(CancellationCutoff))
}
