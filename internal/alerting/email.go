// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package alerting

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig holds the outbound mail settings. An empty Host puts the
// dispatcher in demo mode: messages are rendered and logged, not sent.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
	FromName string `koanf:"from_name"`
	UseTLS   bool   `koanf:"use_tls"`
}

// Enabled reports whether real delivery is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Error codes for failed deliveries, recorded on the delivery ledger.
const (
	ErrCodeConnectionFailed = "CONNECTION_FAILED"
	ErrCodeAuthFailed       = "AUTH_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeRecipient        = "RECIPIENT_REJECTED"
	ErrCodeUnknown          = "UNKNOWN"
)

// EmailChannel delivers rendered alert messages over SMTP.
type EmailChannel struct {
	cfg         SMTPConfig
	dialTimeout time.Duration
}

// NewEmailChannel creates an SMTP delivery channel.
func NewEmailChannel(cfg SMTPConfig) *EmailChannel {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailChannel{
		cfg:         cfg,
		dialTimeout: 30 * time.Second,
	}
}

// Send delivers one message to all recipients in a single SMTP
// transaction. There are no retries here: retry policy belongs to the
// caller, and for flood alerting the policy is a single attempt.
func (c *EmailChannel) Send(ctx context.Context, recipients []string, msg Message) error {
	if len(recipients) == 0 {
		return nil
	}
	return c.sendSMTP(ctx, recipients, c.buildMessage(recipients, msg))
}

// buildMessage constructs an RFC 5322 message with multipart/alternative
// plain-text and HTML bodies.
func (c *EmailChannel) buildMessage(recipients []string, m Message) string {
	var msg strings.Builder

	fromName := c.cfg.FromName
	if fromName == "" {
		fromName = "Barfani Early Warning"
	}

	fmt.Fprintf(&msg, "From: %s <%s>\r\n", fromName, c.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&msg, "Content-Language: %s\r\n", m.Language)
	msg.WriteString("MIME-Version: 1.0\r\n")

	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(m.BodyText)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(m.BodyHTML)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	return msg.String()
}

func (c *EmailChannel) sendSMTP(ctx context.Context, recipients []string, msg string) error {
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)

	dialer := &net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if c.cfg.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: c.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if c.cfg.Username != "" && c.cfg.Password != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(c.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("recipient %s rejected: %w", rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// Quit failures after a completed DATA are harmless.
	_ = client.Quit()
	return nil
}

// ClassifyError maps a delivery error onto a ledger error code.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "authentication") || strings.Contains(msg, "auth"):
		return ErrCodeAuthFailed
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return ErrCodeTimeout
	case strings.Contains(msg, "connection") || strings.Contains(msg, "connect"):
		return ErrCodeConnectionFailed
	case strings.Contains(msg, "recipient") || strings.Contains(msg, "mailbox"):
		return ErrCodeRecipient
	}
	return ErrCodeUnknown
}
