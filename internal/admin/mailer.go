package admin

import (
	"fmt"
	"net/smtp"

	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewMailer returns an SMTP mailer, or a LogMailer when no SMTP host is
// configured.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTP.Host == "" {
		return LogMailer{}
	}
	return &smtpMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		from:     cfg.SMTP.From,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
	}
}

func (m *smtpMailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// LogMailer writes messages to the log. For local development only.
type LogMailer struct{}

func (LogMailer) SendEmail(to, subject, body string) error {
	logger.Warnf("SMTP not configured; mail to %s (%s): %s", to, subject, body)
	return nil
}
