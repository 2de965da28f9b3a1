package notify

import (
	"fmt"
	"strings"
	"text/template"
)

// Template names accepted by Mailer.SendTemplated.
const (
	TemplatePasswordReset        = "password-reset"
	TemplatePurchaseConfirmation = "purchase-confirmation"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplatePasswordReset: {
		subject: "Recuperação de Senha - EncenaPe",
		body: template.Must(template.New(TemplatePasswordReset).Parse(
			`Olá {{.nome}},

Recebemos um pedido para redefinir sua senha. Use o link abaixo dentro de 1 hora:

{{.resetUrl}}

Se você não fez esse pedido, ignore este email.

Equipe EncenaPe`)),
	},
	TemplatePurchaseConfirmation: {
		subject: "Confirmação de Compra - EncenaPe",
		body: template.Must(template.New(TemplatePurchaseConfirmation).Parse(
			`Olá {{.nome}},

Sua compra para "{{.evento}}" foi confirmada.

Código do ingresso: {{.codigo}}

Apresente o QR code do seu ingresso na entrada do evento.

Equipe EncenaPe`)),
	},
}

func renderTemplate(name string, vars map[string]string) (subject, body string, err error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", name)
	}
	var buf strings.Builder
	if err := tmpl.body.Execute(&buf, vars); err != nil {
		return "", "", fmt.Errorf("render mail template %q: %w", name, err)
	}
	return tmpl.subject, buf.String(), nil
}
