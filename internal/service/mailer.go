// Package service contains background and outbound services used by
// the request handlers
package service

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a plaintext verification code to a recipient.
// Handlers depend on this interface so tests can swap in a fake
type Mailer interface {
	SendOTP(to, name, otp string, ttl time.Duration) error
}

// SMTPMailer sends verification mails over a single SMTP account.
// The dialer is built once at startup, not per request
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewSMTPMailer() *SMTPMailer {
	from := viper.GetString("smtp.sender_address")

	return &SMTPMailer{
		dialer: gomail.NewDialer(
			viper.GetString("smtp.host"),
			viper.GetInt("smtp.port"),
			from,
			viper.GetString("smtp.password"),
		),
		from:       from,
		senderName: viper.GetString("smtp.sender_name"),
	}
}

func (s *SMTPMailer) SendOTP(to, name, otp string, ttl time.Duration) error {
	if to == s.from {
		return fmt.Errorf("invalid email address")
	}

	m := gomail.NewMessage()

	m.SetHeader("From", fmt.Sprintf("%v <%v>", s.senderName, s.from))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify Your Email")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %v,</p><p>Your OTP is <b>%v</b>. It will expire in %v.</p>",
		name, otp, formatTTL(ttl)))

	return s.dialer.DialAndSend(m)
}

func formatTTL(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		h := int(ttl / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}

	m := int(ttl / time.Minute)
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
