package model

import "time"

// PasswordResetToken models a row in the `password_reset_tokens`
// table. A token proves control of an account's email for a single
// password reset. It is time-boxed (one hour from creation) and
// single-use: the Used flag transitions false → true exactly once
// and the row is never deleted once consumed, so a replayed token
// can be rejected explicitly.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – account the token was issued for.
//  Token     – cryptographically random URL-safe token value.
//  ExpiresAt – absolute expiry timestamp.
//  Used      – whether the token has been consumed.
type PasswordResetToken struct {
	ID        uint64    // password_reset_tokens.id
	AccountID uint64    // password_reset_tokens.account_id
	Token     string    // password_reset_tokens.token
	ExpiresAt time.Time // password_reset_tokens.expires_at
	Used      bool      // password_reset_tokens.used
}
