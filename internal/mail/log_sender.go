package mail

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// LogSender writes messages to the log instead of delivering them.
// The body is only logged at debug level since it can carry reset links.
type LogSender struct{}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("to", utils.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("Email delivered to log")
	log.Debug().
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email body")

	return nil
}
