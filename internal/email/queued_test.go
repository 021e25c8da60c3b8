package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	resetLinks []string
	resetErr   error
	welcomes   int
}

func (r *recordingDeliverer) SendResetEmail(_ context.Context, _, _, resetLink string) error {
	if r.resetErr != nil {
		return r.resetErr
	}
	r.resetLinks = append(r.resetLinks, resetLink)
	return nil
}

func (r *recordingDeliverer) SendWelcomeEmail(_ context.Context, _, _ string) error {
	r.welcomes++
	return nil
}

func TestQueuedMailerDeliversResetInline(t *testing.T) {
	rec := &recordingDeliverer{}
	q := NewQueuedMailer(rec)

	err := q.SendResetEmail(context.Background(), "a@example.com", "Test User", "lucaapp://reset-password?token=abc")
	require.NoError(t, err)

	// Reset mail goes straight through the wrapped mailer, never
	// the broker.
	require.Len(t, rec.resetLinks, 1)
	assert.Equal(t, "lucaapp://reset-password?token=abc", rec.resetLinks[0])
	assert.Zero(t, rec.welcomes)
}

func TestQueuedMailerPropagatesResetDeliveryFailure(t *testing.T) {
	rec := &recordingDeliverer{resetErr: errors.New("relay down")}
	q := NewQueuedMailer(rec)

	err := q.SendResetEmail(context.Background(), "a@example.com", "Test User", "lucaapp://reset-password?token=abc")
	assert.ErrorContains(t, err, "relay down")
}
