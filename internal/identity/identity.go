// Package identity defines the external identity-provider contract and its
// GoTrue-style REST implementation. Authentication screens and credential
// storage belong to the provider; this package only consumes its operations.
package identity

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrUnauthorized is returned when the provider rejects the credentials or
// the access token.
var ErrUnauthorized = errors.New("identity: unauthorized")

// User identifies an authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the authenticated-identity context: the provider-issued token
// plus the account it belongs to. Absent for anonymous usage.
type Session struct {
	Token oauth2.Token
	User  User
}

// Valid reports whether the session carries a usable access token.
func (s *Session) Valid() bool {
	return s != nil && s.Token.Valid()
}

// Provider is the set of identity operations the app consumes.
type Provider interface {
	// SignUp registers a new account. The provider may require email
	// confirmation before SignIn succeeds.
	SignUp(ctx context.Context, email, password string) error

	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignOut revokes the access token.
	SignOut(ctx context.Context, accessToken string) error

	// CurrentUser resolves an access token to its account.
	CurrentUser(ctx context.Context, accessToken string) (User, error)

	// RequestPasswordReset starts the provider's recovery flow for email.
	RequestPasswordReset(ctx context.Context, email string) error

	// UpdatePassword sets a new password for the token's account, used at
	// the end of the recovery flow.
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}
