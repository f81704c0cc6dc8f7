package mailer

import (
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

type SMTPMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	backoff   time.Duration
}

func NewSMTP(host string, port int, username, password, fromEmail string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
		backoff:   time.Second,
	}
}

func (m *SMTPMailer) Send(templateFile, username, email string, data any) error {
	msg, err := render(templateFile, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateFile, err)
	}

	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.fromEmail, FromName)
	mail.SetAddressHeader("To", email, username)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.PlainBody)
	mail.AddAlternative("text/html", msg.HTMLBody)

	var lastErr error
	for i := 0; i < maxRetires; i++ {
		if lastErr = m.dialer.DialAndSend(mail); lastErr == nil {
			return nil
		}
		// exponential backoff
		time.Sleep(m.backoff * time.Duration(1<<i))
	}

	return fmt.Errorf("failed to send email after %d attempts, error: %w", maxRetires, lastErr)
}
