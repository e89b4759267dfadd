package usecase

import (
	"context"

	"github.com/iho/authgate/internal/domain"
)

// CredentialStore persists the single live token pair across reloads.
// Reads and writes are last-writer-wins; there is exactly one writer role
// at a time (session use case or request pipeline).
type CredentialStore interface {
	Get() (domain.Credential, error)
	Set(cred domain.Credential) error
	Clear() error
}

// LoginSession is the result of a successful credential exchange.
type LoginSession struct {
	Credential domain.Credential
	User       *domain.User
}

// AuthAPI is the narrow slice of the backend consumed by the session state
// machine. Implementations handle token attachment and refresh internally;
// the login call itself must not recurse into that interception logic.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginSession, error)
	Me(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
}
