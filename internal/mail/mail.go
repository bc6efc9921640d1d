// Package mail delivers outgoing email through a configurable transport.
// The transport is chosen once at startup from EmailSettings.Provider.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// ErrUnknownProvider is returned for an unrecognised email provider.
var ErrUnknownProvider = errors.New("unknown email provider")

// Message is a single outgoing email.
type Message struct {
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"html_body,omitempty"`
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("mail: recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mail: subject is required")
	}
	return nil
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender builds the transport named by cfg.Provider.
func NewSender(ctx context.Context, cfg *config.EmailSettings) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", constants.EmailProviderLog:
		return NewLogSender(), nil
	case constants.EmailProviderSMTP:
		return NewSMTPSender(cfg), nil
	case constants.EmailProviderSES:
		return NewSESSender(ctx, cfg)
	case constants.EmailProviderSendGrid:
		return NewSendGridSender(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
