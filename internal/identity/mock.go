package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// MockProvider implements Provider in memory for tests and local development
// without a real auth deployment. Accounts are registered via SignUp or
// seeded with AddUser; tokens are opaque strings minted per sign-in.
type MockProvider struct {
	mu       sync.Mutex
	users    map[string]mockUser // by email
	sessions map[string]string   // access token -> user id
	nextID   int
}

type mockUser struct {
	id       string
	password string
}

// NewMockProvider returns an empty in-memory provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		users:    make(map[string]mockUser),
		sessions: make(map[string]string),
	}
}

// AddUser seeds an account and returns its user id.
func (m *MockProvider) AddUser(email, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("user-%d", m.nextID)
	m.users[email] = mockUser{id: id, password: password}
	return id
}

// SignUp registers the account immediately, with no confirmation step.
func (m *MockProvider) SignUp(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[email]; exists {
		return fmt.Errorf("identity: account %s already registered", email)
	}
	m.nextID++
	m.users[email] = mockUser{id: fmt.Sprintf("user-%d", m.nextID), password: password}
	return nil
}

// SignIn checks the password and mints a session token.
func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok || u.password != password {
		return nil, ErrUnauthorized
	}
	token := fmt.Sprintf("tok-%s-%d", u.id, len(m.sessions)+1)
	m.sessions[token] = u.id
	return &Session{
		Token: oauth2.Token{
			AccessToken: token,
			TokenType:   "bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
		User: User{ID: u.id, Email: email},
	}, nil
}

// SignOut revokes the token.
func (m *MockProvider) SignOut(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accessToken)
	return nil
}

// CurrentUser resolves a minted token.
func (m *MockProvider) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.sessions[accessToken]
	if !ok {
		return User{}, ErrUnauthorized
	}
	for email, u := range m.users {
		if u.id == id {
			return User{ID: id, Email: email}, nil
		}
	}
	return User{}, ErrUnauthorized
}

// RequestPasswordReset is accepted for any email, like the real provider
// (which never reveals whether an account exists).
func (m *MockProvider) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

// UpdatePassword changes the password of the token's account.
func (m *MockProvider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.sessions[accessToken]
	if !ok {
		return ErrUnauthorized
	}
	for email, u := range m.users {
		if u.id == id {
			u.password = newPassword
			m.users[email] = u
			return nil
		}
	}
	return ErrUnauthorized
}
