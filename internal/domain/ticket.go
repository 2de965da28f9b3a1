package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus enumerates lifecycle states for purchased tickets.
type TicketStatus string

const (
	TicketStatusActive   TicketStatus = "ACTIVE"
	TicketStatusCanceled TicketStatus = "CANCELED"
)

// DefaultCancelReason is recorded when the buyer gives none.
const DefaultCancelReason = "Cancelado pelo usuário"

// Ticket is a purchased claim on some quantity of an event's capacity.
type Ticket struct {
	ID            string
	UserID        string
	EventID       string
	Quantity      int
	Code          string
	QRCodeURL     string
	Status        TicketStatus
	TotalValue    decimal.Decimal
	PaymentMethod string
	CancelReason  string
	CreatedAt     time.Time
	CanceledAt    *time.Time
}

// IsActive reports whether the ticket still claims inventory.
func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusActive
}

// Cancel marks the ticket canceled at the given instant. Restoring the
// event's inventory is the caller's responsibility and must happen exactly once.
func (t *Ticket) Cancel(reason string, now time.Time) {
	if reason == "" {
		reason = DefaultCancelReason
	}
	t.Status = TicketStatusCanceled
	t.CancelReason = reason
	t.CanceledAt = &now
}
