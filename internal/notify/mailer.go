package notify

import (
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/encenape/event-service/internal/config"
)

// Mailer is the outbound mail collaborator. Callers on primary paths must
// treat failures as log-and-continue; nothing here blocks a purchase or a
// reset from committing.
type Mailer interface {
	SendTemplated(to, templateName string, vars map[string]string) error
	SendPlain(to, subject, body string) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer builds a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (m *smtpMailer) SendTemplated(to, templateName string, vars map[string]string) error {
	subject, body, err := renderTemplate(templateName, vars)
	if err != nil {
		return err
	}
	return m.send(to, subject, body)
}

func (m *smtpMailer) SendPlain(to, subject, body string) error {
	return m.send(to, subject, body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	mail := mailyak.New(m.addr, m.auth)
	mail.From(m.from)
	mail.To(to)
	mail.Subject(subject)
	mail.Plain().Set(body)
	if err := mail.Send(); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
