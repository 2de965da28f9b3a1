package dto

import (
	"time"

	"github.com/encenape/event-service/internal/domain"
)

// CreateMessageRequest payload for the public contact form.
type CreateMessageRequest struct {
	Sender       string `json:"sender"`
	Text         string `json:"text"`
	ContactEmail string `json:"contact_email"`
}

// RespondMessageRequest payload.
type RespondMessageRequest struct {
	Response string `json:"response"`
}

// MessageResponse is the admin view of a support message.
type MessageResponse struct {
	ID            string     `json:"id"`
	Sender        string     `json:"sender"`
	Text          string     `json:"text"`
	ContactEmail  string     `json:"contact_email,omitempty"`
	Status        string     `json:"status"`
	Response      string     `json:"response,omitempty"`
	RespondedByID *string    `json:"responded_by_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

// NewMessageResponse maps the domain message.
func NewMessageResponse(message *domain.Message) MessageResponse {
	return MessageResponse{
		ID:            message.ID,
		Sender:        message.Sender,
		Text:          message.Text,
		ContactEmail:  message.ContactEmail,
		Status:        string(message.Status),
		Response:      message.Response,
		RespondedByID: message.RespondedByID,
		CreatedAt:     message.CreatedAt,
		RespondedAt:   message.RespondedAt,
	}
}

// NewMessageResponses maps a slice of messages.
func NewMessageResponses(messages []domain.Message) []MessageResponse {
	items := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, NewMessageResponse(&messages[i]))
	}
	return items
}
