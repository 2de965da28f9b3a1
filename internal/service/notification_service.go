package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/config"
	"github.com/encenape/event-service/internal/events"
	"github.com/encenape/event-service/internal/notify"
)

// NotificationService turns domain events into outbound mail. Every handler
// logs and swallows failures; notification delivery never fails a request.
type NotificationService struct {
	mailer      notify.Mailer
	frontendURL string
	adminTo     string
	logger      *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(mailer notify.Mailer, frontend config.FrontendConfig, mail config.MailConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:      mailer,
		frontendURL: frontend.BaseURL,
		adminTo:     mail.AdminTo,
		logger:      logger,
	}
}

// Register subscribes the mail handlers on the dispatcher.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketPurchased, s.onTicketPurchased)
	dispatcher.Subscribe(events.EventTicketCanceled, s.onTicketCanceled)
	dispatcher.Subscribe(events.EventPasswordResetRequested, s.onPasswordResetRequested)
	dispatcher.Subscribe(events.EventSupportMessageCreated, s.onSupportMessageCreated)
	dispatcher.Subscribe(events.EventSupportMessageResponded, s.onSupportMessageResponded)
}

func (s *NotificationService) onTicketPurchased(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPurchasedPayload)
	if !ok {
		return nil
	}
	err := s.mailer.SendTemplated(payload.UserEmail, notify.TemplatePurchaseConfirmation, map[string]string{
		"nome":   payload.UserName,
		"evento": payload.EventTitle,
		"codigo": payload.TicketCode,
	})
	if err != nil {
		s.logger.Warn("purchase confirmation mail failed",
			zap.String("ticket_id", payload.TicketID), zap.Error(err))
	}
	return nil
}

func (s *NotificationService) onTicketCanceled(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCanceledPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf(
		"Olá,\n\nSeu ingresso %s para \"%s\" foi cancelado.\nMotivo: %s\nValor a estornar: R$ %s\n\nEquipe EncenaPe",
		payload.TicketCode, payload.EventTitle, payload.Reason, payload.TotalValue)
	if err := s.mailer.SendPlain(payload.UserEmail, "Cancelamento de Ingresso - EncenaPe", body); err != nil {
		s.logger.Warn("cancellation mail failed",
			zap.String("ticket_id", payload.TicketID), zap.Error(err))
	}
	return nil
}

func (s *NotificationService) onPasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	err := s.mailer.SendTemplated(payload.UserEmail, notify.TemplatePasswordReset, map[string]string{
		"nome":     payload.UserName,
		"resetUrl": s.frontendURL + "/redefinir-senha?token=" + payload.Token,
	})
	if err != nil {
		s.logger.Warn("password reset mail failed",
			zap.String("email", payload.UserEmail), zap.Error(err))
	}
	return nil
}

func (s *NotificationService) onSupportMessageCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SupportMessageCreatedPayload)
	if !ok || s.adminTo == "" {
		return nil
	}
	body := fmt.Sprintf("Nova mensagem de %s (%s):\n\n%s",
		payload.Sender, payload.ContactEmail, payload.Text)
	if err := s.mailer.SendPlain(s.adminTo, "Nova Mensagem de Contato - EncenaPe", body); err != nil {
		s.logger.Warn("support notification mail failed",
			zap.String("message_id", payload.MessageID), zap.Error(err))
	}
	return nil
}

func (s *NotificationService) onSupportMessageResponded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SupportMessageRespondedPayload)
	if !ok || payload.ContactEmail == "" {
		return nil
	}
	body := fmt.Sprintf("Olá %s,\n\nSua mensagem foi respondida:\n\n%s\n\nEquipe EncenaPe",
		payload.Sender, payload.Response)
	if err := s.mailer.SendPlain(payload.ContactEmail, "Resposta à sua Mensagem - EncenaPe", body); err != nil {
		s.logger.Warn("support reply mail failed",
			zap.String("message_id", payload.MessageID), zap.Error(err))
	}
	return nil
}
