package email

import "time"

// SendResult is what invite issuance reports back to the caller. Delivery
// failure is data, not an error that fails the operation.
type SendResult struct {
	Success    bool   `json:"success"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Provider sends platform mail. The core never inspects message content; it
// only branches on the result.
type Provider interface {
	// SendInvite delivers an invite code to a candidate.
	SendInvite(to, name, code string, expiresAt time.Time) (*SendResult, error)

	// Send delivers an arbitrary HTML message.
	Send(to, subject, htmlBody string) error
}

// Config mirrors the email section of the application config.
type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	PortalURL string
}
