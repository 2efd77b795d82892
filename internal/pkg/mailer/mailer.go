package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/leadpilot/leadpilot-backend/internal/conf"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// maxRetries is how many delivery attempts are made per message
const maxRetries = 3

// Mailer sends outreach email over SMTP
type Mailer struct {
	client   *mail.Client
	fromAddr string
	fromName string
	logger   *zap.Logger
}

// New builds a Mailer from SMTP config. A missing host disables sending;
// Send then returns an error instead of attempting delivery.
func New(cfg *conf.SMTPConfig, logger *zap.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return &Mailer{fromAddr: cfg.FromAddr, fromName: cfg.FromName, logger: logger}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client:   client,
		fromAddr: cfg.FromAddr,
		fromName: cfg.FromName,
		logger:   logger,
	}, nil
}

// IsConfigured reports whether SMTP delivery is available
func (m *Mailer) IsConfigured() bool {
	return m.client != nil
}

// Send delivers a plain-text message, retrying transient failures
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		return fmt.Errorf("smtp is not configured")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromAddr); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
			lastErr = err
			m.logger.Warn("email delivery attempt failed",
				zap.String("to", to),
				zap.Int("attempt", attempt),
				zap.Error(err))

			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
