package mail

import (
	"context"
	"fmt"

	"waterguard/internal/config"
)

// NewFromConfig builds the sender for the configured transport.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.MailTransport {
	case config.TransportSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPass), nil
	case config.TransportGmail:
		return NewGmailSender(ctx, cfg.GmailCredentialsJSON, cfg.GmailRefreshToken, cfg.SenderEmail)
	case config.TransportSES:
		return NewSESSender(ctx, cfg.AWSRegion, cfg.SenderEmail)
	default:
		return nil, fmt.Errorf("unknown mail transport: %s", cfg.MailTransport)
	}
}
