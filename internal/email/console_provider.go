package email

import (
	"fmt"
	"time"

	"assesshub_backend/internal/logger"
)

// ConsoleProvider logs messages instead of sending them. Used in development
// and in the env-var test configuration.
type ConsoleProvider struct {
	PortalURL string
}

func NewConsoleProvider(portalURL string) *ConsoleProvider {
	return &ConsoleProvider{PortalURL: portalURL}
}

func (p *ConsoleProvider) Send(to, subject, htmlBody string) error {
	logger.Info("console email", "to", to, "subject", subject, "body_bytes", len(htmlBody))
	return nil
}

func (p *ConsoleProvider) SendInvite(to, name, code string, expiresAt time.Time) (*SendResult, error) {
	logger.Info("console invite email",
		"to", to,
		"name", name,
		"code", code,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return &SendResult{
		Success:    true,
		PreviewURL: fmt.Sprintf("console://invite/%s", code),
	}, nil
}
