package main

import (
	"io"

	"github.com/go-gomail/gomail"
)

// ---------------------------------------------------------------------------
// Email
// ---------------------------------------------------------------------------

// Attachment is a generated file kept in memory.
type Attachment struct {
	Filename string
	Data     []byte
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

func newDialer(cfg *Config) *gomail.Dialer {
	return gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
}

// newMessage builds the mail carrying the worksheets as attachments.
func newMessage(cfg *Config, subject string, attachments ...Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.Email.From)
	msg.SetHeader("To", cfg.Email.To)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", "Worksheets attached.\n")

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	return msg
}

// sendEmail sends the generated PDFs via SMTP.
func sendEmail(s mailSender, cfg *Config, subject string, attachments ...Attachment) error {
	return s.DialAndSend(newMessage(cfg, subject, attachments...))
}
