// Package mail sends transactional email over SMTP.
//
//	m := mail.NewSMTPMailer(mail.FromEnv())
//	err := m.Send(ctx, mail.Message{
//	    To:      []string{"jane@example.com"},
//	    Subject: "Your receipt RCP-1A2B3C4D",
//	    Body:    html,
//	    HTML:    true,
//	})
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/config"
)

// ErrNoRecipients is returned when a message has no To address.
var ErrNoRecipients = errors.New("mail: no recipients")

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// FromEnv reads MAIL_* settings. Mail is disabled unless MAIL_HOST is set.
func FromEnv() Config {
	return Config{
		Host:     config.Get("MAIL_HOST", ""),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "receipts@elohimtech.store"),
		FromName: config.Get("MAIL_FROM_NAME", "Elohimtech"),
	}
}

// Enabled reports whether enough is configured to attempt delivery.
func (c Config) Enabled() bool { return c.Host != "" && c.From != "" }

// Message is one outgoing email.
type Message struct {
	To      []string
	CC      []string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer is a Sender backed by an SMTP relay.
type SMTPMailer struct {
	cfg  Config
	dial func(ctx context.Context, addr string) (net.Conn, error)
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	d := &net.Dialer{Timeout: 10 * time.Second}
	return &SMTPMailer{cfg: cfg, dial: func(ctx context.Context, addr string) (net.Conn, error) {
		if cfg.Port == "465" {
			td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: cfg.Host}}
			return td.DialContext(ctx, "tcp", addr)
		}
		return d.DialContext(ctx, "tcp", addr)
	}}
}

// Send delivers msg. Port 465 uses implicit TLS; other ports upgrade with
// STARTTLS when the server offers it. Authentication is skipped when no
// username is configured.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	conn, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && m.cfg.Port != "465" {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	for _, rcpt := range append(append([]string(nil), msg.To...), msg.CC...) {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(Build(m.cfg, msg)); err != nil {
		w.Close()
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	return c.Quit()
}

// Build renders msg as an RFC 5322 message.
func Build(cfg Config, msg Message) []byte {
	contentType := "text/plain"
	if msg.HTML {
		contentType = "text/html"
	}

	var b strings.Builder
	if cfg.FromName != "" {
		fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.From)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", cfg.From)
	}
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if len(msg.CC) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.CC, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
