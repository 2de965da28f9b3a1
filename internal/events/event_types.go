package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketPurchased         EventType = "ticket_purchased"
	EventTicketCanceled          EventType = "ticket_canceled"
	EventPasswordResetRequested  EventType = "password_reset_requested"
	EventSupportMessageCreated   EventType = "support_message_created"
	EventSupportMessageResponded EventType = "support_message_responded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketPurchasedPayload carries what the confirmation mail needs.
type TicketPurchasedPayload struct {
	TicketID   string `json:"ticket_id"`
	TicketCode string `json:"ticket_code"`
	EventTitle string `json:"event_title"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Quantity   int    `json:"quantity"`
}

// TicketCanceledPayload carries refund/cancellation context.
type TicketCanceledPayload struct {
	TicketID   string `json:"ticket_id"`
	TicketCode string `json:"ticket_code"`
	EventTitle string `json:"event_title"`
	UserEmail  string `json:"user_email"`
	TotalValue string `json:"total_value"`
	Reason     string `json:"reason"`
}

// PasswordResetRequestedPayload carries the plaintext token for the reset
// mail. It exists only in memory on the notification path.
type PasswordResetRequestedPayload struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Token     string `json:"-"`
}

// SupportMessageCreatedPayload notifies administrators of new messages.
type SupportMessageCreatedPayload struct {
	MessageID    string `json:"message_id"`
	Sender       string `json:"sender"`
	ContactEmail string `json:"contact_email"`
	Text         string `json:"text"`
}

// SupportMessageRespondedPayload carries the reply for the contact address.
type SupportMessageRespondedPayload struct {
	MessageID    string `json:"message_id"`
	Sender       string `json:"sender"`
	ContactEmail string `json:"contact_email"`
	Response     string `json:"response"`
}
