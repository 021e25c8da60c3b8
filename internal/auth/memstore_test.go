package auth

import (
	"context"
	"sync"
	"time"

	"github.com/lucaapp/account-service/internal/model"
	"github.com/lucaapp/account-service/internal/repository"
)

// In-memory store fakes shared by the tests in this package. They
// implement the same contracts as the MySQL repositories, including
// the repository sentinel errors.

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memAccountStore struct {
	mu       sync.Mutex
	seq      uint64
	accounts map[uint64]model.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[uint64]model.Account)}
}

func (s *memAccountStore) Create(_ context.Context, a *model.Account) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == a.Email {
			return 0, repository.ErrEmailExists
		}
	}
	s.seq++
	a.ID = s.seq
	s.accounts[a.ID] = *a
	return a.ID, nil
}

func (s *memAccountStore) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memAccountStore) GetByID(_ context.Context, id uint64) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := a
	return &out, nil
}

func (s *memAccountStore) UpdatePassword(_ context.Context, id uint64, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Password = secret
	s.accounts[id] = a
	return nil
}

func (s *memAccountStore) TouchLastLogin(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.LastLogin.Valid = true
	a.LastLogin.Time = time.Now()
	s.accounts[id] = a
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	seq      uint64
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]model.Session)}
}

func (s *memSessionStore) Create(_ context.Context, accountID uint64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.sessions[token] = model.Session{ID: s.seq, AccountID: accountID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (s *memSessionStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := sess
	return &out, nil
}

func (s *memSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *memSessionStore) DeleteAllForAccount(_ context.Context, accountID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.AccountID == accountID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *memSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type memResetStore struct {
	mu     sync.Mutex
	seq    uint64
	tokens map[string]model.PasswordResetToken
}

func newMemResetStore() *memResetStore {
	return &memResetStore{tokens: make(map[string]model.PasswordResetToken)}
}

func (s *memResetStore) Create(_ context.Context, accountID uint64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tokens[token] = model.PasswordResetToken{ID: s.seq, AccountID: accountID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (s *memResetStore) Get(_ context.Context, token string) (*model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := t
	return &out, nil
}

func (s *memResetStore) MarkUsed(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, t := range s.tokens {
		if t.ID == id {
			t.Used = true
			s.tokens[token] = t
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memResetStore) DeleteUnused(_ context.Context, accountID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, t := range s.tokens {
		if t.AccountID == accountID && !t.Used {
			delete(s.tokens, token)
		}
	}
	return nil
}

func (s *memResetStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type sentReset struct {
	to, name, link string
}

type fakeMailer struct {
	mu         sync.Mutex
	welcomes   []string
	resets     []sentReset
	welcomeErr error
	resetErr   error
}

func (m *fakeMailer) SendResetEmail(_ context.Context, toEmail, toName, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetErr != nil {
		return m.resetErr
	}
	m.resets = append(m.resets, sentReset{to: toEmail, name: toName, link: resetLink})
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.welcomeErr != nil {
		return m.welcomeErr
	}
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}
