package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/quotedprintable"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"NoticeDigest/internal/config"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/ports"
)

// ErrNotConfigured is returned when SMTP server or sender address is missing.
var ErrNotConfigured = errors.New("smtp is not configured")

// Session is the subset of *smtp.Client used to deliver messages.
type Session interface {
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
	Close() error
}

// DialFunc opens an SMTP session to addr.
type DialFunc func(ctx context.Context, addr, host string) (Session, error)

// Sender mails digests over an implicit-TLS SMTP session, one message per recipient.
type Sender struct {
	cfg    config.SMTPConfig
	dial   DialFunc
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.Notifier = (*Sender)(nil)

// NewSender registers SMTP settings; dial may be nil to use DialTLS.
func NewSender(cfg config.SMTPConfig, dial DialFunc, log *slog.Logger) *Sender {
	if dial == nil {
		dial = DialTLS
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sender{cfg: cfg, dial: dial, now: time.Now, logger: log}
}

// DialTLS connects with TLS from the first byte (SMTPS).
func DialTLS(ctx context.Context, addr, host string) (Session, error) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 10 * time.Second},
		Config:    &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	return client, nil
}

// Deliver sends the digest to each recipient over one session. A failing
// recipient is recorded and the rest are still attempted; an error is returned
// only when no session could be established.
func (s *Sender) Deliver(ctx context.Context, digest domain.Digest, recipients []domain.Recipient) (domain.DeliveryReport, error) {
	var report domain.DeliveryReport
	if !s.cfg.Configured() {
		return report, ErrNotConfigured
	}
	if len(recipients) == 0 {
		return report, nil
	}

	session, err := s.dial(ctx, s.cfg.Address(), s.cfg.Server)
	if err != nil {
		return report, fmt.Errorf("connect smtp: %w", err)
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Server)
		if err := session.Auth(auth); err != nil {
			_ = session.Close()
			return report, fmt.Errorf("smtp auth: %w", err)
		}
	}

	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, domain.DeliveryFailure{Email: r.Email, Err: err})
			continue
		}
		if err := s.sendOne(session, digest, r); err != nil {
			s.logger.Error("send failed", "email", r.Email, "error", err)
			report.Failed = append(report.Failed, domain.DeliveryFailure{Email: r.Email, Err: err})
			if rErr := session.Reset(); rErr != nil {
				s.logger.Warn("reset session", "error", rErr)
			}
			continue
		}
		s.logger.Info("sent", "email", r.Email)
		report.Delivered = append(report.Delivered, r.Email)
	}

	if err := session.Quit(); err != nil {
		s.logger.Debug("quit session", "error", err)
		_ = session.Close()
	}

	s.logger.Info("delivery finished", "notices", digest.Count, "delivered", len(report.Delivered), "attempted", report.Attempted())
	return report, nil
}

func (s *Sender) sendOne(session Session, digest domain.Digest, r domain.Recipient) error {
	if err := session.Mail(s.cfg.SenderEmail); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := session.Rcpt(r.Email); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := session.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	msg, err := buildMessage(s.cfg.SenderEmail, r, digest, s.now())
	if err != nil {
		_ = w.Close()
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}
	return nil
}

func buildMessage(from string, to domain.Recipient, digest domain.Digest, sentAt time.Time) ([]byte, error) {
	var b strings.Builder

	toAddr := netmail.Address{Name: to.Name, Address: to.Email}
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + toAddr.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", digest.Subject) + "\r\n")
	b.WriteString("Date: " + sentAt.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	b.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&b)
	if _, err := qp.Write([]byte(digest.Body)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return []byte(b.String()), nil
}
