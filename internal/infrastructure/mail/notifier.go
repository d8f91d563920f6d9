// Package mail entrega los mensajes al usuario por SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/pkg/config"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

var (
	_ ports.Notifier = (*SMTPNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// sender abstrae gomail.Dialer para poder probar sin servidor SMTP.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier envía emails de texto plano con gomail.
type SMTPNotifier struct {
	from   string
	dialer sender
}

// NewSMTPNotifier construye el notifier a partir de la configuración SMTP.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send arma y envía el mensaje. gomail no acepta contexto: solo se respeta una cancelación previa.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", to, err)
	}
	return nil
}

// LogNotifier escribe el mensaje en el log en lugar de enviarlo (desarrollo, SMTP_HOST vacío).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notifier de desarrollo.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("mail")}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("email no enviado (SMTP deshabilitado)")
	return nil
}

// New elige el notifier según la configuración.
func New(cfg config.MailConfig, log *logger.Logger) ports.Notifier {
	if cfg.Host == "" {
		return NewLogNotifier(log)
	}
	return NewSMTPNotifier(cfg)
}
