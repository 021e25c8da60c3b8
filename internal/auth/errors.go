package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned by Register when the email already
	// belongs to an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is returned when a bearer token is missing,
	// unknown or expired.
	ErrUnauthorized = errors.New("invalid or expired token")

	// Reset flow failures. Each maps to a distinct user-facing
	// message.
	ErrInvalidResetToken = errors.New("invalid reset token")
	ErrResetTokenUsed    = errors.New("reset token already used")
	ErrResetTokenExpired = errors.New("reset token expired")
)

// RateLimitedError reports that login is locked out for an
// identifier and how long the caller has to wait.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("too many failed login attempts, retry in %ds", e.RetryAfterSeconds)
}
