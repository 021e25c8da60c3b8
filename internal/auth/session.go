package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucaapp/account-service/internal/repository"
)

// SessionManager issues, validates and revokes opaque bearer
// tokens backed by the sessions table.
type SessionManager struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionManager builds a SessionManager with the given validity
// window (30 days in production configuration).
func NewSessionManager(store SessionStore, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, ttl: ttl, now: time.Now}
}

// Issue mints a random token, persists it with expiry now+ttl and
// returns both. The expiry is always strictly in the future.
func (m *SessionManager) Issue(ctx context.Context, accountID uint64) (string, time.Time, error) {
	token, err := generateToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	expiresAt := m.now().UTC().Add(m.ttl)
	if err := m.store.Create(ctx, accountID, token, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}
	return token, expiresAt, nil
}

// Validate resolves a token to its owning account id. It returns
// ErrUnauthorized when the token is unknown or its expiry is not
// strictly in the future. Expired rows are left in place; expiry is
// passive.
func (m *SessionManager) Validate(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	s, err := m.store.Get(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	if !s.ExpiresAt.After(m.now().UTC()) {
		return 0, ErrUnauthorized
	}
	return s.AccountID, nil
}

// Revoke deletes the session row for a token. Revoking an unknown
// token is a no-op.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// RevokeAll deletes every session for an account. Used by the
// password reset flow and account deletion so no stale bearer token
// survives a credential change.
func (m *SessionManager) RevokeAll(ctx context.Context, accountID uint64) error {
	return m.store.DeleteAllForAccount(ctx, accountID)
}
