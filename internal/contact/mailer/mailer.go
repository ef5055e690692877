package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
)

// Mailer forwards contact messages to the shop inbox.
type Mailer interface {
	SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error
}

// Config holds SMTP settings for the notification mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Inbox    string
}

// SMTPMailer sends contact notifications over SMTP.
type SMTPMailer struct {
	client *mail.Client
	from   string
	inbox  string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer backed by an SMTP client.
func NewSMTPMailer(cfg Config, logger *slog.Logger) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		inbox:  cfg.Inbox,
		logger: logger,
	}, nil
}

// SendContactNotification emails the contact message to the shop inbox.
func (m *SMTPMailer) SendContactNotification(ctx context.Context, cm *domain.ContactMessage) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.inbox); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	if err := msg.ReplyTo(cm.Email); err != nil {
		return fmt.Errorf("set reply-to address: %w", err)
	}

	msg.Subject("رسالة جديدة من " + cm.Name)
	msg.SetBodyString(mail.TypeTextHTML, renderContactHTML(cm))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}

	m.logger.InfoContext(ctx, "contact notification sent",
		slog.String("message_id", cm.ID),
		slog.String("inbox", m.inbox),
	)

	return nil
}

func renderContactHTML(cm *domain.ContactMessage) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>رسالة جديدة من نموذج التواصل</h2>
	<p><strong>الاسم:</strong> %s</p>
	<p><strong>البريد الإلكتروني:</strong> %s</p>
	<p><strong>الرسالة:</strong></p>
	<p>%s</p>
</body>
</html>`,
		html.EscapeString(cm.Name),
		html.EscapeString(cm.Email),
		html.EscapeString(cm.Message),
	)
}
