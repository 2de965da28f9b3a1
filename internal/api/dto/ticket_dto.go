package dto

import (
	"time"

	"github.com/encenape/event-service/internal/domain"
)

// PurchaseTicketRequest payload.
type PurchaseTicketRequest struct {
	EventID       string `json:"event_id"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
}

// CancelTicketRequest payload.
type CancelTicketRequest struct {
	Reason string `json:"reason"`
}

// TicketResponse is the owner's view of a purchased ticket.
type TicketResponse struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	Quantity      int        `json:"quantity"`
	Code          string     `json:"code"`
	QRCodeURL     string     `json:"qr_code_url,omitempty"`
	Status        string     `json:"status"`
	TotalValue    string     `json:"total_value"`
	PaymentMethod string     `json:"payment_method"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
}

// NewTicketResponse maps the domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		EventID:       ticket.EventID,
		Quantity:      ticket.Quantity,
		Code:          ticket.Code,
		QRCodeURL:     ticket.QRCodeURL,
		Status:        string(ticket.Status),
		TotalValue:    ticket.TotalValue.StringFixed(2),
		PaymentMethod: ticket.PaymentMethod,
		CancelReason:  ticket.CancelReason,
		CreatedAt:     ticket.CreatedAt,
		CanceledAt:    ticket.CanceledAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
