package mailer

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/confirmation.html
var confirmationHTML string

var confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationHTML))

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers confirmation emails over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendConfirmation sends the confirm-your-email message with the given
// confirmation link to the recipient.
func (s *SMTPSender) SendConfirmation(to, username, link string) error {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return fmt.Errorf("rendering confirmation email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Confirm your email")
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending confirmation email to %s: %w", to, err)
	}
	return nil
}
