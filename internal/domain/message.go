package domain

import "time"

// MessageStatus enumerates lifecycle states for support messages.
type MessageStatus string

const (
	MessageStatusOpen      MessageStatus = "OPEN"
	MessageStatusResponded MessageStatus = "RESPONDED"
	// MessageStatusClosed is declared in the schema but no flow currently
	// transitions into it.
	MessageStatusClosed MessageStatus = "CLOSED"
)

// Message is a support request submitted through the contact form.
type Message struct {
	ID            string
	Sender        string
	Text          string
	ContactEmail  string
	Status        MessageStatus
	Response      string
	RespondedByID *string
	CreatedAt     time.Time
	RespondedAt   *time.Time
}

// IsOpen reports whether the message still awaits a response.
func (m *Message) IsOpen() bool {
	return m.Status == MessageStatusOpen
}

// Respond records an admin response and moves the message to RESPONDED.
func (m *Message) Respond(response, adminID string, now time.Time) {
	m.Response = response
	m.RespondedByID = &adminID
	m.Status = MessageStatusResponded
	m.RespondedAt = &now
}
