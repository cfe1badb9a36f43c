// Package identity verifies bearer tokens issued by the external identity
// provider and turns them into a subject and profile claims.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Identity is the verified caller.
type Identity struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Role      string
	ExpiresAt time.Time
}

// Verifier checks a credential and yields the identity it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
