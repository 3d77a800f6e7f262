package alert

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// Mailer sends a rendered alert email.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// SMTPConfig holds SMTP delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPMailer delivers mail over SMTP with implicit TLS, the mode SMTPS
// providers expose on port 465.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates an SMTP mailer.
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	if config.Port == 0 {
		config.Port = 465
	}
	return &SMTPMailer{config: config}
}

// Send delivers one multipart/alternative message with text and HTML bodies.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	addr := net.JoinHostPort(m.config.Host, fmt.Sprintf("%d", m.config.Port))

	dialer := tls.Dialer{
		NetDialer: &net.Dialer{},
		Config:    &tls.Config{ServerName: m.config.Host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake: %w", err)
	}
	defer client.Close()

	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth: %w", err)
		}
	}

	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}

	msg, err := m.buildMessage(to, subject, textBody, htmlBody)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}

// buildMessage assembles the MIME envelope: headers plus a
// multipart/alternative body so clients can pick text or HTML.
func (m *SMTPMailer) buildMessage(to, subject, textBody, htmlBody string) (string, error) {
	var sb strings.Builder
	var body strings.Builder

	mw := multipart.NewWriter(&body)

	textPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return "", fmt.Errorf("building text part: %w", err)
	}
	textPart.Write([]byte(textBody))

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return "", fmt.Errorf("building html part: %w", err)
	}
	htmlPart.Write([]byte(htmlBody))

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	from := m.config.From
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From)
	}

	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Reply-To: " + m.config.From + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body.String())

	return sb.String(), nil
}
