package notification

import (
	"context"
	"fmt"
	"time"

	"courtside/models"

	"github.com/wneessen/go-mail"
)

// Mailer delivers one rendered email.
type Mailer interface {
	Send(ctx context.Context, msg models.EmailPayload) error
}

// SMTPConfig describes the outgoing mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay with go-mail.
type SMTPMailer struct {
	cfg  SMTPConfig
	opts []mail.Option
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(20 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTPMailer{cfg: cfg, opts: opts}
}

func (m *SMTPMailer) Send(ctx context.Context, p models.EmailPayload) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.cfg.From, err)
	}
	if err := msg.To(p.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", p.To, err)
	}
	if p.ReplyTo != "" {
		if err := msg.ReplyTo(p.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to %q: %w", p.ReplyTo, err)
		}
	}
	msg.Subject(p.Subject)
	msg.SetBodyString(mail.TypeTextHTML, p.HTML)

	client, err := mail.NewClient(m.cfg.Host, m.opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", p.To, err)
	}
	return nil
}
