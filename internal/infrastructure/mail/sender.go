package mail

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/cuentas-api/pkg/logger"
)

// Sender entrega un mensaje. Respeta la cancelación de ctx.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig credenciales del servidor SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender envío por SMTP con gomail (STARTTLS cuando el servidor lo ofrece).
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

// Send ejecuta el envío en otra goroutine: gomail no acepta contexto.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender no envía nada: registra el destinatario y el código enmascarado.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSender{log: log.Named("mail")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", logger.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("modo log: correo no enviado")
	return nil
}
