// Package queue defines message payloads exchanged over the message
// broker and the outbound-mail publisher/consumer pair.
package queue

// Mail job kinds understood by the consumer.
const (
	MailKindWelcome       = "welcome"
	MailKindPasswordReset = "password_reset"
)

// MailJob is published to the mail.outbound queue whenever the
// service wants an email delivered out of process. It carries
// everything the worker needs so delivery never touches the primary
// database.
type MailJob struct {
	Kind      string `json:"kind"`
	ToEmail   string `json:"to_email"`
	ToName    string `json:"to_name"`
	ResetLink string `json:"reset_link,omitempty"`
	QueuedAt  string `json:"queued_at"`
}
