package auth

import (
	"context"
	"errors"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login verifies credentials and returns a signed token.
	Login(ctx context.Context, email, password string) (string, error)

	// Verify parses a token and returns the authenticated principal's user id.
	Verify(token string) (int64, error)
}

// ErrInvalidCredentials is returned for a bad email/password pair or an
// unparseable token.
var ErrInvalidCredentials = errors.New("invalid credentials")
