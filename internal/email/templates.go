package email

import (
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// renderResetEmail builds the full RFC 5322 message for a password
// reset, with plain-text and HTML alternatives.
func renderResetEmail(from, toEmail, toName, webLink string) []byte {
	text := fmt.Sprintf(`Hi %s,

You requested to reset your password for your Luca App account.

Click this link to reset your password:
%s

This link will expire in 1 hour.

If you didn't request this reset, please ignore this email.

Thanks,
The Luca App Team
`, toName, webLink)

	html := fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333">
<div style="max-width:600px;margin:0 auto;padding:20px">
<h2>Hi %s,</h2>
<p>You requested to reset your password for your Luca App account.</p>
<p><a href="%s" style="display:inline-block;padding:12px 24px;background-color:#D9B53E;color:white;text-decoration:none;border-radius:5px">Reset Password</a></p>
<p>Or copy and paste this link:</p>
<p style="word-break:break-all;color:#666;font-size:12px">%s</p>
<p><strong>This link will expire in 1 hour.</strong></p>
<p>If you didn't request this reset, please ignore this email.</p>
<p style="font-size:12px;color:#666">Thanks,<br>The Luca App Team</p>
</div></body></html>`, toName, webLink, webLink)

	return buildMessage(from, toEmail, toName, "Reset Your Luca App Password", text, html)
}

// renderWelcomeEmail builds the message sent after registration.
func renderWelcomeEmail(from, toEmail, toName string) []byte {
	text := fmt.Sprintf(`Welcome to Luca App!

Hi %s,

Thank you for joining Luca App! We're excited to have you on board.

If you have any questions or need assistance, feel free to reach out to our support team.

Thanks,
The Luca App Team
`, toName)

	html := fmt.Sprintf(`<html><body style="font-family:Arial,sans-serif;color:#333">
<div style="max-width:600px;margin:0 auto;padding:20px">
<div style="background-color:#D9B53E;color:white;padding:20px;text-align:center"><h1>Welcome to Luca App!</h1></div>
<h2>Hi %s,</h2>
<p>Thank you for joining Luca App! We're excited to have you on board.</p>
<p>If you have any questions or need assistance, feel free to reach out to our support team.</p>
<p style="font-size:12px;color:#666;text-align:center">Thanks,<br>The Luca App Team</p>
</div></body></html>`, toName)

	return buildMessage(from, toEmail, toName, "Welcome to Luca App!", text, html)
}

// buildMessage assembles headers plus a multipart/alternative body.
func buildMessage(from, toEmail, toName, subject, text, html string) []byte {
	var sb strings.Builder
	var body strings.Builder
	mw := multipart.NewWriter(&body)

	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString(fmt.Sprintf("To: %s <%s>\r\n", toName, toEmail))
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n")
	sb.WriteString("\r\n")

	tp, _ := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	fmt.Fprint(tp, text)
	hp, _ := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	fmt.Fprint(hp, html)
	mw.Close()

	sb.WriteString(body.String())
	return []byte(sb.String())
}
