// Package mail delivers transactional mail for the password-reset flow.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pensionfund/config"
	"pensionfund/internal/domain/service"
)

// smtpMailer sends mail through a plain SMTP relay. When no SMTP block is
// configured it degrades to logging the reset token, which keeps the local
// environment usable without a relay.
type smtpMailer struct {
	cfg    *config.SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	return &smtpMailer{
		cfg:    cfg.SMTP,
		logger: logger,
	}
}

// SendPasswordReset mails the reset token to the given address.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, to string, token string) error {
	if m.cfg == nil || m.cfg.Host == "" {
		m.logger.InfoContext(ctx, "smtp not configured, logging reset token instead",
			slog.String("to", to))

		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", to)
	body.WriteString("Subject: Password reset request\r\n")
	body.WriteString("\r\n")
	body.WriteString("A password reset was requested for your account.\r\n\r\n")
	fmt.Fprintf(&body, "Reset token: %s\r\n\r\n", token)
	body.WriteString("If you did not request this, you can ignore this message.\r\n")

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(body.String())); err != nil {
		return errors.Wrap(err, "send password reset mail")
	}

	return nil
}
