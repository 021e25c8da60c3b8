package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lucaapp/account-service/internal/model"
)

// ResetTokenRepo persists password reset tokens in the
// `password_reset_tokens` table. Consumed tokens are marked used and
// kept so replays can be distinguished from unknown tokens.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Create inserts a reset token row with used=false.
func (r *ResetTokenRepo) Create(ctx context.Context, accountID uint64, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (account_id, token, expires_at, used) VALUES (?,?,?,false)",
		accountID, token, expiresAt)
	return err
}

// Get fetches a reset token by value regardless of state.
func (r *ResetTokenRepo) Get(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var t model.PasswordResetToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,account_id,token,expires_at,used FROM password_reset_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.AccountID, &t.Token, &t.ExpiresAt, &t.Used)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed flips the used flag. The flag only ever transitions
// false → true.
func (r *ResetTokenRepo) MarkUsed(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used=true WHERE id=?", id)
	return err
}

// DeleteUnused removes any outstanding unused tokens for the
// account, keeping at most one active token per account when a new
// one is issued right after.
func (r *ResetTokenRepo) DeleteUnused(ctx context.Context, accountID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE account_id=? AND used=false", accountID)
	return err
}
