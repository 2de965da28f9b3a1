package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

func adminUser() *domain.User {
	return &domain.User{
		ID:     "admin-1",
		Name:   "Admin",
		Email:  "admin@example.com",
		Roles:  []domain.Role{domain.RoleUser, domain.RoleAdmin},
		Active: true,
	}
}

func TestMessageCreatePublishesAdminNotification(t *testing.T) {
	repo := newFakeMessageRepo()
	dispatcher := events.NewInMemoryDispatcher()

	var notified []events.Event
	dispatcher.Subscribe(events.EventSupportMessageCreated, func(_ context.Context, e events.Event) error {
		notified = append(notified, e)
		return nil
	})

	svc := NewMessageService(repo, dispatcher, clock.NewFixed(testNow))
	message, err := svc.Create(context.Background(), "Maria", "Não recebi meu ingresso", "maria@example.com")
	require.NoError(t, err)

	assert.Equal(t, domain.MessageStatusOpen, message.Status)
	require.Len(t, notified, 1)
	payload, ok := notified[0].Payload.(events.SupportMessageCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, message.ID, payload.MessageID)
}

func TestMessageCreateRequiresSenderAndText(t *testing.T) {
	svc := NewMessageService(newFakeMessageRepo(), events.NewInMemoryDispatcher(), clock.NewFixed(testNow))

	_, err := svc.Create(context.Background(), "  ", "texto", "")
	require.Error(t, err)
	_, err = svc.Create(context.Background(), "Maria", "   ", "")
	require.Error(t, err)
}

func TestMessageRespond(t *testing.T) {
	message := &domain.Message{
		ID:           "msg-1",
		Sender:       "Maria",
		Text:         "Dúvida sobre reembolso",
		ContactEmail: "maria@example.com",
		Status:       domain.MessageStatusOpen,
	}
	repo := newFakeMessageRepo(message)
	dispatcher := events.NewInMemoryDispatcher()

	var replies []events.Event
	dispatcher.Subscribe(events.EventSupportMessageResponded, func(_ context.Context, e events.Event) error {
		replies = append(replies, e)
		return nil
	})

	svc := NewMessageService(repo, dispatcher, clock.NewFixed(testNow))
	responded, err := svc.Respond(context.Background(), "msg-1", "Reembolso em até 7 dias", adminUser())
	require.NoError(t, err)

	assert.Equal(t, domain.MessageStatusResponded, responded.Status)
	require.NotNil(t, responded.RespondedByID)
	assert.Equal(t, "admin-1", *responded.RespondedByID)
	require.NotNil(t, responded.RespondedAt)
	assert.Equal(t, testNow, *responded.RespondedAt)
	require.Len(t, replies, 1)
}

func TestMessageRespondTwiceConflicts(t *testing.T) {
	message := &domain.Message{
		ID:     "msg-1",
		Sender: "Maria",
		Text:   "Dúvida",
		Status: domain.MessageStatusOpen,
	}
	svc := NewMessageService(newFakeMessageRepo(message), events.NewInMemoryDispatcher(), clock.NewFixed(testNow))

	_, err := svc.Respond(context.Background(), "msg-1", "Primeira resposta", adminUser())
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), "msg-1", "Segunda resposta", adminUser())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestMessageRespondWithoutContactSkipsReplyMail(t *testing.T) {
	message := &domain.Message{
		ID:     "msg-1",
		Sender: "Anônimo",
		Text:   "Sem e-mail",
		Status: domain.MessageStatusOpen,
	}
	dispatcher := events.NewInMemoryDispatcher()

	var replies []events.Event
	dispatcher.Subscribe(events.EventSupportMessageResponded, func(_ context.Context, e events.Event) error {
		replies = append(replies, e)
		return nil
	})

	svc := NewMessageService(newFakeMessageRepo(message), dispatcher, clock.NewFixed(testNow))
	_, err := svc.Respond(context.Background(), "msg-1", "Resposta", adminUser())
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestMessageRespondNotFound(t *testing.T) {
	svc := NewMessageService(newFakeMessageRepo(), events.NewInMemoryDispatcher(), clock.NewFixed(testNow))

	_, err := svc.Respond(context.Background(), "missing", "Resposta", adminUser())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
