// Package jobs runs outgoing email through an asynq queue so the API process
// never waits on a mail transport.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// NewSendEmailTask builds an email:send task carrying msg as JSON.
func NewSendEmailTask(msg mail.Message) (*asynq.Task, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return asynq.NewTask(constants.TaskTypeSendEmail, payload), nil
}

// EmailHandler delivers queued email with the configured sender.
type EmailHandler struct {
	sender  mail.Sender
	timeout time.Duration
}

// NewEmailHandler creates an EmailHandler. A zero timeout uses the default send timeout.
func NewEmailHandler(sender mail.Sender, timeout time.Duration) *EmailHandler {
	if timeout <= 0 {
		timeout = constants.DefaultEmailSendTimeout
	}
	return &EmailHandler{sender: sender, timeout: timeout}
}

// HandleSendEmail processes email:send tasks. Payloads that cannot be decoded
// or validated are never retried.
func (h *EmailHandler) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var msg mail.Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid email payload: %v: %w", err, asynq.SkipRetry)
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.sender.Send(sendCtx, msg); err != nil {
		log.Warn().
			Err(err).
			Str("to", utils.MaskEmail(msg.To)).
			Str("subject", msg.Subject).
			Msg("Queued email delivery failed")
		return err
	}

	log.Info().
		Str("to", utils.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("Queued email delivered")
	return nil
}
