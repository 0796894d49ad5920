package service

import (
	"errors"
	"time"
)

// Token validation failures. The HTTP boundary collapses all of them into 401.
var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("token malformed or signature invalid")
	ErrTokenMissingClaim = errors.New("token subject claim missing or invalid")
)

// IssuedToken is a signed session token and its absolute expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService mints and validates stateless session tokens.
type TokenService interface {
	// Issue signs a token for subjectID that expires ttl from now. A non-positive ttl
	// yields a token that is already invalid.
	Issue(subjectID uint64, ttl time.Duration) (*IssuedToken, error)

	// Validate returns the subject id or one of ErrTokenExpired, ErrTokenMalformed, ErrTokenMissingClaim.
	Validate(token string) (uint64, error)

	// DefaultTTL is the configured session validity window.
	DefaultTTL() time.Duration
}
