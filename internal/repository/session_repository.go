package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lucaapp/account-service/internal/model"
)

// SessionRepo persists bearer session tokens in the `sessions`
// table. Tokens are stored verbatim; they already carry 256 bits of
// randomness and are unique-indexed.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, accountID uint64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (account_id, token, expires_at) VALUES (?,?,?)",
		accountID, token, expiresAt)
	return err
}

// Get fetches a session by token value, expired or not. Expiry
// checks belong to the caller so that clock handling stays in one
// place.
func (r *SessionRepo) Get(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,account_id,token,expires_at FROM sessions WHERE token=? LIMIT 1",
		token).Scan(&s.ID, &s.AccountID, &s.Token, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a single session row. Deleting an absent token is
// not an error.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=?", token)
	return err
}

// DeleteAllForAccount removes every session belonging to the
// account. Used by the password reset flow and by account deletion.
func (r *SessionRepo) DeleteAllForAccount(ctx context.Context, accountID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE account_id=?", accountID)
	return err
}
