package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail through an SMTP relay via gomail.
type SMTPProvider struct {
	cfg Config
}

func NewSMTPProvider(cfg Config) (*SMTPProvider, error) {
	if cfg.SMTPHost == "" || cfg.SMTPPort == 0 {
		return nil, fmt.Errorf("email: smtp host and port are required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("email: from_email is required")
	}
	return &SMTPProvider{cfg: cfg}, nil
}

func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(p.cfg.SMTPHost, p.cfg.SMTPPort, p.cfg.Username, p.cfg.Password)
	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendInvite(to, name, code string, expiresAt time.Time) (*SendResult, error) {
	body, err := renderInvite(name, code, expiresAt, p.cfg.PortalURL)
	if err != nil {
		return nil, fmt.Errorf("render invite template: %w", err)
	}
	if err := p.Send(to, "Your assessment invite code", body); err != nil {
		return nil, err
	}
	return &SendResult{Success: true}, nil
}
