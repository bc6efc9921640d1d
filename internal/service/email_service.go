package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

const passwordResetBody = `Hi %s,

We received a request to reset your password.

Use the link below to choose a new one:
%s

The link expires in %s. If you did not request this, you can ignore this email.

Regards,
%s`

// EmailService composes outgoing email and dispatches it without blocking
// the request. Delivery failures are logged and never reach the caller.
type EmailService struct {
	sender   mail.Sender
	queue    EmailQueue
	resetURL string
	resetTTL time.Duration
	signoff  string
	timeout  time.Duration
	wg       sync.WaitGroup
}

// EmailServiceConfig holds the settings EmailService needs.
type EmailServiceConfig struct {
	ResetURL    string
	ResetTTL    time.Duration
	FromName    string
	SendTimeout time.Duration
}

// NewEmailService creates a new EmailService. When queue is non-nil messages
// are enqueued for the worker; otherwise sender is used directly.
func NewEmailService(sender mail.Sender, queue EmailQueue, cfg EmailServiceConfig) *EmailService {
	if cfg.ResetURL == "" {
		cfg.ResetURL = constants.DefaultPasswordResetURL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = constants.DefaultPasswordResetTTL
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = constants.DefaultEmailSendTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = constants.DefaultEmailFromName
	}
	return &EmailService{
		sender:   sender,
		queue:    queue,
		resetURL: cfg.ResetURL,
		resetTTL: cfg.ResetTTL,
		signoff:  cfg.FromName,
		timeout:  cfg.SendTimeout,
	}
}

// ResetLink returns the frontend URL carrying token.
func (s *EmailService) ResetLink(token string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil {
		return s.resetURL + "?" + constants.QueryParamToken + "=" + url.QueryEscape(token)
	}
	query := u.Query()
	query.Set(constants.QueryParamToken, token)
	u.RawQuery = query.Encode()
	return u.String()
}

// BuildPasswordResetEmail composes the reset message for token.
func (s *EmailService) BuildPasswordResetEmail(toEmail, toName, token string) mail.Message {
	greeting := toName
	if greeting == "" {
		greeting = toEmail
	}
	return mail.Message{
		To:      toEmail,
		ToName:  toName,
		Subject: constants.PasswordResetEmailSubject,
		Body:    fmt.Sprintf(passwordResetBody, greeting, s.ResetLink(token), humanDuration(s.resetTTL), s.signoff),
	}
}

// SendPasswordResetEmail dispatches the reset email for token.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) {
	s.Dispatch(ctx, s.BuildPasswordResetEmail(toEmail, toName, token))
}

// Dispatch queues or sends msg in the background. The request context only
// contributes its values; cancelling it does not abort delivery.
func (s *EmailService) Dispatch(ctx context.Context, msg mail.Message) {
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		sendCtx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if s.queue != nil {
			err := s.queue.EnqueueEmail(sendCtx, msg)
			if err == nil {
				return
			}
			log.Warn().
				Err(err).
				Str("to", utils.MaskEmail(msg.To)).
				Msg("Failed to enqueue email, sending directly")
		}

		if s.sender == nil {
			log.Error().Str("to", utils.MaskEmail(msg.To)).Msg("No email sender configured")
			return
		}
		if err := s.sender.Send(sendCtx, msg); err != nil {
			log.Error().
				Err(err).
				Str("to", utils.MaskEmail(msg.To)).
				Str("subject", msg.Subject).
				Msg("Failed to send email")
			return
		}
		log.Info().
			Str("to", utils.MaskEmail(msg.To)).
			Str("subject", msg.Subject).
			Msg("Email sent")
	}()
}

// Wait blocks until every dispatched message has been handed off.
func (s *EmailService) Wait() {
	s.wg.Wait()
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
