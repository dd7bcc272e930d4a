package notify

import (
	"context"
	"fmt"
	"errors"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/planejaedu/identity/pkg/retry"
)

// EmailSender delivers messages over SMTP.
type EmailSender struct {
	conf SMTP
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates a new email sender
func NewEmailSender(conf SMTP) *EmailSender {
	return &EmailSender{conf: conf, send: smtp.SendMail}
}

// Validate validates the configuration
func (s *EmailSender) Validate() error {
	if s.conf.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if s.conf.Port <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if s.conf.From == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// Send renders msg and sends it to msg.To
func (s *EmailSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(msg.To, "\r\n") {
		return fmt.Errorf("invalid recipient address")
	}
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}

	data := "From: " + s.conf.From + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body

	var auth smtp.Auth
	if s.conf.Username != "" {
		auth = smtp.PlainAuth("", s.conf.Username, s.conf.Password, s.conf.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.conf.Host, s.conf.Port)
	err = retry.Do(ctx, func(context.Context) error {
		err := s.send(addr, auth, s.conf.From, []string{msg.To}, []byte(data))
		if isPermanent(err) {
			return retry.Stop(err)
		}
		return err
	}, retry.WithMaxAttempts(s.conf.Attempts), retry.WithBackoff(s.conf.Backoff, 10*time.Second), retry.WithJitter())
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// 5xx replies are final, the server will not accept the message on retry.
func isPermanent(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr) && tpErr.Code >= 500
}
