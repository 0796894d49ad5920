package service

import (
	"context"
	"errors"

	"skillswap/internal/domain/entity"
)

var (
	// ErrInvalidAssertion means the external token is not genuine, expired or meant for another audience.
	ErrInvalidAssertion = errors.New("invalid identity assertion")

	// ErrMissingEmail means the assertion is genuine but carries no email.
	ErrMissingEmail = errors.New("identity assertion has no email")

	// ErrIdentityProviderUnavailable means verification could not be completed, e.g. signing keys could not be fetched.
	ErrIdentityProviderUnavailable = errors.New("identity provider unavailable")
)

// IdentityVerifier proves an external identity token genuine and extracts its claims.
// It never mints local sessions.
type IdentityVerifier interface {
	Verify(ctx context.Context, externalToken string) (*entity.FederatedClaims, error)
	Provider() entity.FederatedProvider
}
