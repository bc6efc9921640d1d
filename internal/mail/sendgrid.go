package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
)

// sendgridAPI is the part of the SendGrid client the sender uses.
type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   sendgridAPI
	from     string
	fromName string
}

// NewSendGridSender creates a SendGridSender. An API key is required.
func NewSendGridSender(cfg *config.EmailSettings) (*SendGridSender, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, errors.New("sendgrid: SENDGRID_API_KEY is not set")
	}
	return &SendGridSender{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:     cfg.From,
		fromName: cfg.FromName,
	}, nil
}

// Send delivers the message. Non-2xx API responses are errors.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	from := sgmail.NewEmail(s.fromName, s.from)
	to := sgmail.NewEmail(msg.ToName, msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.HTMLBody)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", response.StatusCode, response.Body)
	}

	log.Debug().Int("status_code", response.StatusCode).Msg("SendGrid accepted email")
	return nil
}
