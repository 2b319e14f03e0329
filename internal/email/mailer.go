package email

import (
	"gopkg.in/gomail.v2"

	"atithi_backend/internal/config"
)

// Mailer sends one HTML message. Services depend on this interface so tests
// can substitute a recording fake.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (e *smtpMailer) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(e.cfg.Email.FromEmail, e.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUser,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
