// Package email delivers account notifications over SMTP. When no
// SMTP host is configured the mailer degrades to logging the links
// so development setups keep working without a mail relay.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPMailer sends rendered emails through a single SMTP relay.
type SMTPMailer struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FromAddress string
	FromName    string
	// WebURL is the HTTPS base used in email bodies. Deep links do
	// not survive every email client, so the body links to
	// WebURL/reset?token=... which redirects to the app scheme.
	WebURL string

	DialTimeout time.Duration

	// TLSConfig is used for the STARTTLS handshake. Nil means
	// verify the relay certificate against Host.
	TLSConfig *tls.Config
}

func NewSMTPMailer(host, port, username, password, fromAddress, fromName, webURL string) *SMTPMailer {
	return &SMTPMailer{
		Host:        host,
		Port:        port,
		Username:    username,
		Password:    password,
		FromAddress: fromAddress,
		FromName:    fromName,
		WebURL:      webURL,
		DialTimeout: 5 * time.Second,
	}
}

// Configured reports whether a relay host is set.
func (m *SMTPMailer) Configured() bool { return m.Host != "" }

// SendResetEmail delivers the password reset email. The resetLink
// argument is the app deep link; the web variant is derived from it
// for the clickable button. Without SMTP configuration the link is
// logged instead and the send reported as successful, so local
// setups can complete the reset flow from the log line.
func (m *SMTPMailer) SendResetEmail(ctx context.Context, toEmail, toName, resetLink string) error {
	webLink := m.webResetLink(resetLink)
	if !m.Configured() {
		log.Printf("smtp not configured; reset link for %s: %s (app: %s)", toEmail, webLink, resetLink)
		return nil
	}
	msg := renderResetEmail(m.fromHeader(), toEmail, toName, webLink)
	return m.send(ctx, toEmail, msg)
}

// SendWelcomeEmail delivers the post-registration welcome email.
func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !m.Configured() {
		log.Printf("smtp not configured; welcome email for %s skipped", toEmail)
		return nil
	}
	msg := renderWelcomeEmail(m.fromHeader(), toEmail, toName)
	return m.send(ctx, toEmail, msg)
}

// webResetLink converts an app deep link (scheme://reset-password?token=x)
// into the HTTPS redirect URL embedded in the email body.
func (m *SMTPMailer) webResetLink(resetLink string) string {
	if i := strings.Index(resetLink, "token="); i >= 0 {
		return fmt.Sprintf("%s/reset?token=%s", m.WebURL, resetLink[i+len("token="):])
	}
	return resetLink
}

func (m *SMTPMailer) fromHeader() string {
	return fmt.Sprintf("%s <%s>", m.FromName, m.FromAddress)
}

// send pushes one message through the relay with a bounded dial
// timeout. Delivery is synchronous; callers decide whether a
// failure is fatal to their flow.
func (m *SMTPMailer) send(ctx context.Context, toEmail string, msg []byte) error {
	addr := net.JoinHostPort(m.Host, m.Port)

	d := net.Dialer{Timeout: m.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.Username != "" {
		if ok, _ := c.Extension("STARTTLS"); ok {
			tlsConf := m.TLSConfig
			if tlsConf == nil {
				tlsConf = &tls.Config{ServerName: m.Host}
			}
			if err := c.StartTLS(tlsConf); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
		auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(m.FromAddress); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(toEmail); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return c.Quit()
}
