package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lucaapp/account-service/internal/repository"
)

// ResetManager mints and consumes single-use, time-boxed password
// reset tokens.
type ResetManager struct {
	tokens   ResetTokenStore
	accounts AccountStore
	sessions *SessionManager
	ttl      time.Duration
	now      func() time.Time
}

// NewResetManager builds a ResetManager. ttl is the validity window
// of a freshly minted token (one hour in production configuration).
func NewResetManager(tokens ResetTokenStore, accounts AccountStore, sessions *SessionManager, ttl time.Duration) *ResetManager {
	return &ResetManager{
		tokens:   tokens,
		accounts: accounts,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Request issues a fresh reset token for the account. Any previous
// unused token is deleted first, so at most one unused token exists
// per account at a time.
func (m *ResetManager) Request(ctx context.Context, accountID uint64) (string, time.Time, error) {
	if err := m.tokens.DeleteUnused(ctx, accountID); err != nil {
		return "", time.Time{}, fmt.Errorf("delete stale reset tokens: %w", err)
	}
	token, err := generateToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := m.now().UTC().Add(m.ttl)
	if err := m.tokens.Create(ctx, accountID, token, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("store reset token: %w", err)
	}
	return token, expiresAt, nil
}

// Consume validates a reset token and applies the password change.
// Failures map to distinct sentinels: ErrInvalidResetToken for an
// unknown token, ErrResetTokenUsed for a replay, ErrResetTokenExpired
// past the window. On success the new password is hashed and
// written, the token marked used and every session for the account
// revoked; the owning account id is returned.
//
// The underlying store has no cross-table transactions, so the four
// effects are sequential writes. Ordering keeps each failure mode
// recoverable: a failure before MarkUsed leaves the token unused and
// the whole call retryable, while a session-revocation failure after
// it is logged for manual follow-up instead of failing a reset whose
// password change already stuck.
func (m *ResetManager) Consume(ctx context.Context, token, newPassword string) (uint64, error) {
	t, err := m.tokens.Get(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrInvalidResetToken
	}
	if err != nil {
		return 0, fmt.Errorf("load reset token: %w", err)
	}
	if t.Used {
		return 0, ErrResetTokenUsed
	}
	if m.now().UTC().After(t.ExpiresAt) {
		return 0, ErrResetTokenExpired
	}

	secret, err := HashPassword(newPassword)
	if err != nil {
		return 0, fmt.Errorf("hash new password: %w", err)
	}
	if err := m.accounts.UpdatePassword(ctx, t.AccountID, secret); err != nil {
		return 0, fmt.Errorf("update password: %w", err)
	}
	if err := m.tokens.MarkUsed(ctx, t.ID); err != nil {
		// Token stays unused, so the client can retry the same call.
		return 0, fmt.Errorf("mark reset token used: %w", err)
	}
	if err := m.sessions.RevokeAll(ctx, t.AccountID); err != nil {
		log.Printf("error: reset for account %d: password changed but session revocation failed, revoke manually: %v", t.AccountID, err)
	}
	return t.AccountID, nil
}
