package auth

import (
	"context"
	"time"

	"github.com/lucaapp/account-service/internal/model"
)

// AccountStore is the slice of account persistence the auth flows
// need. Implemented by repository.AccountRepo.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	UpdatePassword(ctx context.Context, id uint64, secret string) error
	TouchLastLogin(ctx context.Context, id uint64) error
}

// SessionStore persists bearer session tokens. Implemented by
// repository.SessionRepo.
type SessionStore interface {
	Create(ctx context.Context, accountID uint64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForAccount(ctx context.Context, accountID uint64) error
}

// ResetTokenStore persists password reset tokens. Implemented by
// repository.ResetTokenRepo.
type ResetTokenStore interface {
	Create(ctx context.Context, accountID uint64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint64) error
	DeleteUnused(ctx context.Context, accountID uint64) error
}

// Mailer is the outbound notification sink. Welcome mail is
// best-effort; reset mail failures must surface to the caller.
type Mailer interface {
	SendResetEmail(ctx context.Context, toEmail, toName, resetLink string) error
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}
