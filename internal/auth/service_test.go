package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaapp/account-service/internal/model"
)

type serviceFixture struct {
	svc      *Service
	accounts *memAccountStore
	sessions *SessionManager
	store    *memSessionStore
	limiter  *MemoryLoginLimiter
	mailer   *fakeMailer
	clock    *testClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	clock := newTestClock()

	accounts := newMemAccountStore()
	sessionStore := newMemSessionStore()
	resetStore := newMemResetStore()

	sessions := NewSessionManager(sessionStore, 30*24*time.Hour)
	sessions.now = clock.Now
	resets := NewResetManager(resetStore, accounts, sessions, time.Hour)
	resets.now = clock.Now
	limiter := NewMemoryLoginLimiter(5, 300*time.Second)
	limiter.now = clock.Now
	mailer := &fakeMailer{}

	return &serviceFixture{
		svc:      NewService(accounts, sessions, resets, limiter, mailer, "lucaapp"),
		accounts: accounts,
		sessions: sessions,
		store:    sessionStore,
		limiter:  limiter,
		mailer:   mailer,
		clock:    clock,
	}
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Name:        "Test User",
		Email:       email,
		Phone:       "0123456789",
		DateOfBirth: "1995-06-15",
		Password:    "Sup3rSecret",
	}
}

func TestRegisterIssuesSessionAndWelcomeMail(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "a@example.com", res.Account.Email)

	id, err := f.sessions.Validate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Account.ID, id)

	// Stored secret is hashed, never the raw password.
	stored, err := f.accounts.GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, SecretHashed, ParseSecret(stored.Password).Kind)
	assert.NotEqual(t, "Sup3rSecret", stored.Password)

	assert.Equal(t, []string{"a@example.com"}, f.mailer.welcomes)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerInput("a@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Case and whitespace differences still collide after
	// normalization.
	_, err = f.svc.Register(ctx, registerInput("  A@Example.COM "))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSurvivesWelcomeMailFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.mailer.welcomeErr = errors.New("smtp down")

	res, err := f.svc.Register(context.Background(), registerInput("a@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLoginSuccess(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "A@Example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, res.Account.ID)
	assert.NotEqual(t, reg.Token, res.Token)

	stored, err := f.accounts.GetByID(ctx, res.Account.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLogin.Valid)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "a@example.com", "WrongPassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, "a@example.com", "WrongPassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Even the correct password is refused while locked.
	_, err = f.svc.Login(ctx, "a@example.com", "Sup3rSecret")
	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 300, rl.RetryAfterSeconds)

	f.clock.Advance(301 * time.Second)
	_, err = f.svc.Login(ctx, "a@example.com", "Sup3rSecret")
	assert.NoError(t, err)
}

func TestLoginUnknownEmailCountsTowardLockout(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Login(ctx, "ghost@example.com", "whatever1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := f.svc.Login(ctx, "ghost@example.com", "whatever1")
	var rl *RateLimitedError
	assert.ErrorAs(t, err, &rl)
}

func TestLoginSuccessClearsFailureCount(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, "a@example.com", "WrongPassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = f.svc.Login(ctx, "a@example.com", "Sup3rSecret")
	require.NoError(t, err)

	// The counter restarted, so four more failures still do not lock.
	for i := 0; i < 4; i++ {
		_, err := f.svc.Login(ctx, "a@example.com", "WrongPassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = f.svc.Login(ctx, "a@example.com", "Sup3rSecret")
	assert.NoError(t, err)
}

func TestLoginUpgradesLegacyPlaintextSecret(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	id, err := f.accounts.Create(ctx, &model.Account{
		Name: "Legacy User", Email: "legacy@example.com", Password: "OldPlainPass1",
	})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "legacy@example.com", "OldPlainPass1")
	require.NoError(t, err)
	assert.Equal(t, id, res.Account.ID)

	stored, err := f.accounts.GetByID(ctx, id)
	require.NoError(t, err)
	secret := ParseSecret(stored.Password)
	assert.Equal(t, SecretHashed, secret.Kind)
	assert.True(t, secret.Verify("OldPlainPass1"))

	// Subsequent logins go through the hashed path.
	_, err = f.svc.Login(ctx, "legacy@example.com", "OldPlainPass1")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "legacy@example.com", "OldPlainPass2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, res.Token))
	_, err = f.sessions.Validate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Unknown and empty tokens log out without error.
	assert.NoError(t, f.svc.Logout(ctx, res.Token))
	assert.NoError(t, f.svc.Logout(ctx, ""))
}

func TestForgotPasswordSendsDeepLink(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@example.com"))
	require.Len(t, f.mailer.resets, 1)

	sent := f.mailer.resets[0]
	assert.Equal(t, "a@example.com", sent.to)
	assert.Equal(t, "Test User", sent.name)
	assert.True(t, strings.HasPrefix(sent.link, "lucaapp://reset-password?token="))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newServiceFixture(t)

	// Indistinguishable from the known-email case to the caller.
	assert.NoError(t, f.svc.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.mailer.resets)
}

func TestForgotPasswordMailFailurePropagates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	f.mailer.resetErr = errors.New("smtp down")
	assert.Error(t, f.svc.ForgotPassword(ctx, "a@example.com"))
}

func TestResetPasswordEndToEnd(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, registerInput("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@example.com"))
	require.Len(t, f.mailer.resets, 1)
	token := strings.TrimPrefix(f.mailer.resets[0].link, "lucaapp://reset-password?token=")

	require.NoError(t, f.svc.ResetPassword(ctx, token, "BrandNewPass1"))

	// The pre-reset session is dead and only the new password works.
	_, err = f.sessions.Validate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Login(ctx, "a@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "a@example.com", "BrandNewPass1")
	assert.NoError(t, err)

	// Replaying the consumed token fails.
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token, "YetAnother1"), ErrResetTokenUsed)
}
