package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// MessageService handles contact-form submissions and admin responses.
type MessageService struct {
	repo       repository.MessageRepository
	dispatcher events.Dispatcher
	clock      clock.Clock
}

// NewMessageService constructs the service.
func NewMessageService(repo repository.MessageRepository, dispatcher events.Dispatcher, clk clock.Clock) *MessageService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MessageService{repo: repo, dispatcher: dispatcher, clock: clk}
}

// Create records a new support message. Submission requires no account.
func (s *MessageService) Create(ctx context.Context, sender, text, contactEmail string) (*domain.Message, error) {
	sender = strings.TrimSpace(sender)
	text = strings.TrimSpace(text)
	if sender == "" || text == "" {
		return nil, apperrors.NewValidationError("remetente e mensagem são obrigatórios", nil)
	}

	message := &domain.Message{
		Sender:       sender,
		Text:         text,
		ContactEmail: strings.TrimSpace(contactEmail),
		Status:       domain.MessageStatusOpen,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventSupportMessageCreated,
		Payload: events.SupportMessageCreatedPayload{
			MessageID:    message.ID,
			Sender:       message.Sender,
			ContactEmail: message.ContactEmail,
			Text:         message.Text,
		},
	})
	return message, nil
}

// ListAll returns messages in every status, newest first. Admin only.
func (s *MessageService) ListAll(ctx context.Context, limit, offset int) ([]domain.Message, error) {
	list, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListOpen returns messages still awaiting a response. Admin only.
func (s *MessageService) ListOpen(ctx context.Context) ([]domain.Message, error) {
	list, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Respond records the admin's reply, moves the message to RESPONDED, and
// forwards the reply to the contact address when one was given. Responding
// twice is a conflict; the first response stands.
func (s *MessageService) Respond(ctx context.Context, messageID, response string, admin *domain.User) (*domain.Message, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperrors.NewValidationError("resposta é obrigatória", nil)
	}

	message, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("mensagem", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !message.IsOpen() {
		return nil, apperrors.NewConflict("mensagem já foi respondida", nil)
	}

	message.Respond(response, admin.ID, s.clock.Now())
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, apperrors.MapError(err)
	}

	if message.ContactEmail != "" {
		s.publishEvent(ctx, events.Event{
			Type: events.EventSupportMessageResponded,
			Payload: events.SupportMessageRespondedPayload{
				MessageID:    message.ID,
				Sender:       message.Sender,
				ContactEmail: message.ContactEmail,
				Response:     message.Response,
			},
		})
	}
	return message, nil
}

func (s *MessageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
