package model

import "time"

// Session models an entry in the `sessions` table. A session is an
// opaque bearer token bound to one account with an absolute expiry.
// Sessions are created on register/login, read on every
// authenticated request, deleted individually on logout and in bulk
// when the account's password is reset.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – owner of the session.
//  Token     – cryptographically random URL-safe token value.
//  ExpiresAt – absolute expiry timestamp.
type Session struct {
	ID        uint64    // sessions.id
	AccountID uint64    // sessions.account_id
	Token     string    // sessions.token
	ExpiresAt time.Time // sessions.expires_at
}
