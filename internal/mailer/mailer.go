// Package mailer submits outbound email over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds the SMTP submission settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username when empty
	UseSSL   bool   // implicit TLS (port 465)
}

// Sender delivers a single HTML email. Satisfied by SMTPSender and by test
// fakes.
type Sender interface {
	SendHTML(to, subject, htmlBody string) error
}

// SMTPSender sends mail through a submission server with gomail.
type SMTPSender struct {
	config Config
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(config Config) *SMTPSender {
	if config.From == "" {
		config.From = config.Username
	}
	return &SMTPSender{config: config}
}

// SendHTML builds a MIME message and delivers it. One dial per message, the
// way the original system connected per send.
func (s *SMTPSender) SendHTML(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	d.SSL = s.config.UseSSL

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}
