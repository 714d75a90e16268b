package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	perr "intake/internal/platform/errors"
)

// Dialer abstracts net.Dialer for tests
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPConfig holds mail transport settings
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// SMTPOption tweaks an SMTPSender
type SMTPOption func(*SMTPSender)

// WithDialer swaps the network dialer
func WithDialer(d Dialer) SMTPOption {
	return func(s *SMTPSender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithAuth supplies a custom auth strategy
func WithAuth(a smtp.Auth) SMTPOption {
	return func(s *SMTPSender) { s.auth = a }
}

// WithClock replaces the clock used for the Date header
func WithClock(now func() time.Time) SMTPOption {
	return func(s *SMTPSender) {
		if now != nil {
			s.now = now
		}
	}
}

// SMTPSender delivers notifications over SMTP with STARTTLS when the
// server offers it
type SMTPSender struct {
	cfg    SMTPConfig
	auth   smtp.Auth
	tls    *tls.Config
	dialer Dialer
	now    func() time.Time
}

// NewSMTPSender validates the transport settings and builds a sender
func NewSMTPSender(cfg SMTPConfig, opts ...SMTPOption) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, perr.Internalf("smtp: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, perr.Internalf("smtp: invalid port %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.From) == "" || strings.TrimSpace(cfg.To) == "" {
		return nil, perr.Internalf("smtp: from and to addresses are required")
	}

	s := &SMTPSender{
		cfg:    cfg,
		tls:    &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		dialer: &net.Dialer{Timeout: 30 * time.Second},
		now:    time.Now,
	}
	if strings.TrimSpace(cfg.User) != "" {
		s.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Send delivers one message to the configured recipient
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp dial failed")
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp client failed")
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(s.tls.Clone()); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp starttls failed")
		}
	}
	if s.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(s.auth); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp auth failed")
			}
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp mail from failed")
	}
	if err := client.Rcpt(s.cfg.To); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp rcpt failed")
	}

	w, err := client.Data()
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp data failed")
	}
	if _, err := w.Write(s.render(msg)); err != nil {
		_ = w.Close()
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp write failed")
	}
	if err := w.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "smtp close failed")
	}
	return client.Quit()
}

func (s *SMTPSender) render(msg Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", s.cfg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(crlf(msg.Body))
	return buf.Bytes()
}

func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

func crlf(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.ReplaceAll(body, "\n", "\r\n")
}
