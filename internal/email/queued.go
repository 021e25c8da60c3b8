package email

import (
	"context"
	"time"

	"github.com/lucaapp/account-service/internal/queue"
)

// QueuedMailer satisfies the auth.Mailer interface by publishing
// welcome mail to the broker while delivering reset mail inline
// through the wrapped mailer. Reset mail must stay synchronous: a
// delivery failure has to reach the forgot-password caller, and a
// job ack'd into a queue cannot report one. Welcome mail is
// fire-and-forget, so it rides the durable queue and survives
// broker and process restarts.
type QueuedMailer struct {
	direct queue.Deliverer
}

func NewQueuedMailer(direct queue.Deliverer) *QueuedMailer {
	return &QueuedMailer{direct: direct}
}

func (q *QueuedMailer) SendResetEmail(ctx context.Context, toEmail, toName, resetLink string) error {
	return q.direct.SendResetEmail(ctx, toEmail, toName, resetLink)
}

func (q *QueuedMailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	return queue.PublishMailJob(ctx, queue.MailJob{
		Kind:     queue.MailKindWelcome,
		ToEmail:  toEmail,
		ToName:   toName,
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
