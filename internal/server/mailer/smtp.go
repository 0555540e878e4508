package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPNotifier sends mail over implicit-TLS SMTP (port 465 style).
type SMTPNotifier struct {
	host       string
	port       int
	username   string
	password   string
	senderName string
}

func NewSMTPNotifier(host string, port int, username, password, senderName string) *SMTPNotifier {
	return &SMTPNotifier{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		senderName: senderName,
	}
}

// Send connects, authenticates, and submits one HTML message. The context
// bounds the dial; SMTP command exchange has no further deadline beyond the
// connection's.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))

	dialer := &tls.Dialer{NetDialer: &net.Dialer{}, Config: &tls.Config{ServerName: n.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(n.username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(n.message(to, subject, body))); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}

func (n *SMTPNotifier) message(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", n.senderName, n.username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
