package mailer

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is a single outbound email. Text is required; HTML is optional
// and sent as an alternative part.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type IEmailService interface {
	Send(msg Message) error
}

type emailService struct {
	dialer *gomail.Dialer
}

// NewEmailService sends through an SMTP relay (Resend: smtp.resend.com:465,
// user "resend", password = API key).
func NewEmailService(host string, port int, username, password string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	if port == 465 {
		d.SSL = true
	}
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &emailService{dialer: d}
}

func (s *emailService) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", msg.Subject, msg.To, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", msg.Subject, msg.To)
	return nil
}
