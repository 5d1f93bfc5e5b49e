package config

import (
	"bytes"
	"crypto/tls"
	"errors"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// ErrMailerNotConfigured is returned when SMTP_HOST or SMTP_FROM is missing.
var ErrMailerNotConfigured = errors.New("smtp not configured (SMTP_HOST/SMTP_FROM)")

// Attachment is an in-memory file sent alongside a message.
type Attachment struct {
	Name    string
	Content []byte
}

func smtpPort() int {
	p, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if p == 0 {
		p = 587
	}
	return p
}

// MailerConfigured reports whether SendMail can dispatch messages.
func MailerConfigured() bool {
	return os.Getenv("SMTP_HOST") != "" && os.Getenv("SMTP_FROM") != ""
}

func SendMail(to []string, subject, html string, attachments ...Attachment) error {
	if len(to) == 0 {
		return nil
	}
	if !MailerConfigured() {
		return ErrMailerNotConfigured
	}
	smtpHost := os.Getenv("SMTP_HOST")

	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	for _, att := range attachments {
		m.AttachReader(att.Name, bytes.NewReader(att.Content))
	}

	d := mail.NewDialer(smtpHost, smtpPort(), os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"))

	// STARTTLS on 587 is mandatory for the providers we use.
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}

	return d.DialAndSend(m)
}
