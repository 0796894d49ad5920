// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
	"skillswap/internal/infra/auth/federated"

	"google.golang.org/api/idtoken"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// payloadValidator is satisfied by *idtoken.Validator.
type payloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

type verifier struct {
	validator payloadValidator
	clientID  string
	logger    *slog.Logger
}

// NewVerifier builds a validator that fetches and caches Google's signing keys.
func NewVerifier(ctx context.Context, clientID string, logger *slog.Logger) (service.IdentityVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Google ID token validator")
	}

	return newVerifier(validator, clientID, logger), nil
}

func newVerifier(validator payloadValidator, clientID string, logger *slog.Logger) *verifier {
	return &verifier{validator: validator, clientID: clientID, logger: logger}
}

// Verify validates signature, audience and expiry with idtoken, then checks the issuer.
func (v *verifier) Verify(ctx context.Context, idToken string) (*entity.FederatedClaims, error) {
	if idToken == "" {
		return nil, errors.Wrap(service.ErrInvalidAssertion, "empty id token")
	}

	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		if providerUnreachable(err) {
			v.logger.Error("Google signing keys unavailable", slog.Any("error", err))

			return nil, errors.Wrap(service.ErrIdentityProviderUnavailable, err.Error())
		}
		v.logger.Warn("Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(service.ErrInvalidAssertion, err.Error())
	}

	if !googleIssuers[payload.Issuer] {
		v.logger.Warn("Google ID token has unexpected issuer", slog.String("issuer", payload.Issuer))

		return nil, errors.Wrapf(service.ErrInvalidAssertion, "unexpected issuer %q", payload.Issuer)
	}

	return federated.NormalizeClaims(entity.FederatedProviderGoogle, payload.Subject, payload.Claims)
}

// providerUnreachable reports failures to reach Google rather than a bad token.
// idtoken formats cert fetch errors with %v, so the message is matched as well.
func providerUnreachable(err error) bool {
	if _, ok := errors.AsType[*url.Error](err); ok {
		return true
	}
	if _, ok := errors.AsType[net.Error](err); ok {
		return true
	}

	return strings.Contains(err.Error(), "unable to retrieve cert")
}

func (v *verifier) Provider() entity.FederatedProvider {
	return entity.FederatedProviderGoogle
}
