// Package auth implements the credential, session and password
// reset subsystem: bcrypt password secrets, opaque bearer tokens,
// single-use reset tokens and the login rate limiter, composed by
// Service into the register/login/logout/forgot/reset flows.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lucaapp/account-service/internal/model"
	"github.com/lucaapp/account-service/internal/repository"
)

// RegisterInput is the pre-validated payload for account creation.
type RegisterInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Password    string
}

// AuthResult is returned by Register and Login: a fresh session
// token plus the owning account. The Account still carries the
// stored secret; handlers must not serialize that field.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *model.Account
}

// Service orchestrates the auth flows. It is the only component
// that talks to the mailer, and it owns the limiter bookkeeping
// around login.
type Service struct {
	accounts  AccountStore
	sessions  *SessionManager
	resets    *ResetManager
	limiter   LoginLimiter
	mailer    Mailer
	appScheme string
}

func NewService(accounts AccountStore, sessions *SessionManager, resets *ResetManager, limiter LoginLimiter, mailer Mailer, appScheme string) *Service {
	return &Service{
		accounts:  accounts,
		sessions:  sessions,
		resets:    resets,
		limiter:   limiter,
		mailer:    mailer,
		appScheme: appScheme,
	}
}

// Register creates an account, issues a session and sends a welcome
// email best-effort. A duplicate email fails with ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	secret, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := &model.Account{
		Name:        in.Name,
		Email:       email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		Password:    secret,
	}
	if _, err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	token, expiresAt, err := s.sessions.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	// Welcome mail is fire-and-forget: a broken mailer must not
	// fail a registration that already committed.
	if err := s.mailer.SendWelcomeEmail(ctx, account.Email, account.Name); err != nil {
		log.Printf("warn: could not send welcome email to %s: %v", account.Email, err)
	}

	return &AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Login verifies credentials under the rate limiter and issues a
// session. Unknown email and wrong password both record a failure
// and return ErrInvalidCredentials, so the response shape leaks no
// account existence. A locked identifier fails with
// *RateLimitedError before any lookup happens.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if s.limiter.IsLocked(ctx, email) {
		return nil, &RateLimitedError{RetryAfterSeconds: s.limiter.RemainingLockout(ctx, email)}
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.limiter.RecordFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	secret := ParseSecret(account.Password)
	if !secret.Verify(password) {
		s.limiter.RecordFailure(ctx, email)
		return nil, ErrInvalidCredentials
	}

	if secret.Kind == SecretPlaintext {
		// Transparent one-time upgrade of a legacy plaintext row.
		// The login already succeeded, so a failed rewrite only
		// postpones the upgrade to the next login.
		if upgraded, err := HashPassword(password); err != nil {
			log.Printf("warn: hash upgraded password for account %d: %v", account.ID, err)
		} else if err := s.accounts.UpdatePassword(ctx, account.ID, upgraded); err != nil {
			log.Printf("warn: upgrade legacy password for account %d: %v", account.ID, err)
		} else {
			account.Password = upgraded
		}
	}

	s.limiter.Clear(ctx, email)

	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		log.Printf("warn: update last_login for account %d: %v", account.ID, err)
	}

	token, expiresAt, err := s.sessions.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Logout revokes the presented session token. Unknown tokens are a
// no-op; logout always succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}

// ForgotPassword triggers the reset flow when the email belongs to
// an account and does nothing otherwise. Callers return the same
// success response in both cases; only a mail delivery failure for
// an existing account surfaces, because the account owner genuinely
// needs the email to arrive.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	token, _, err := s.resets.Request(ctx, account.ID)
	if err != nil {
		return err
	}
	resetLink := fmt.Sprintf("%s://reset-password?token=%s", s.appScheme, token)
	if err := s.mailer.SendResetEmail(ctx, account.Email, account.Name, resetLink); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and applies the new
// password. See ResetManager.Consume for failure semantics.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := s.resets.Consume(ctx, token, newPassword)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
