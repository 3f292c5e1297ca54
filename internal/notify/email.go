// internal/notify/email.go

package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tenant-otp-service/internal/domain"
)

// SMTPMailer delivers passcodes over SMTP. It is the email-side counterpart
// of SMSGateway, filling the delivery path the phone classifier does not take.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
	}
}

var _ domain.Notifier = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, destination, message string) error {
	// gomail dials synchronously; honor cancellation before starting.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: email to %s: %v", domain.ErrDeliveryFailure, destination, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", destination)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", message)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: email to %s: %v", domain.ErrDeliveryFailure, destination, err)
	}
	return nil
}
