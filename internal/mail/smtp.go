package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
)

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers mail through an SMTP relay. smtp.SendMail upgrades the
// connection with STARTTLS when the server offers it.
type SMTPSender struct {
	addr     string
	host     string
	username string
	password string
	from     string
	fromName string
	sendMail sendMailFunc
}

// NewSMTPSender creates an SMTPSender from the email settings.
func NewSMTPSender(cfg *config.EmailSettings) *SMTPSender {
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.SMTPServer, strconv.Itoa(cfg.SMTPPort)),
		host:     cfg.SMTPServer,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.From,
		fromName: cfg.FromName,
		sendMail: smtp.SendMail,
	}
}

// Send delivers the message. The context bounds the wait, but smtp.SendMail
// itself cannot be interrupted once started.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	payload := s.buildMessage(msg)
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.addr, auth, s.from, []string{msg.To}, payload)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: send to %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: send to %s: %w", s.addr, ctx.Err())
	}
}

func (s *SMTPSender) buildMessage(msg Message) []byte {
	from := s.from
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.fromName), s.from)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", uuid.New().String(), s.host)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)
	return buf.Bytes()
}
