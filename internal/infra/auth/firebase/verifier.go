// Package firebase verifies Firebase Authentication ID tokens with the Firebase Admin SDK.
package firebase

import (
	"context"
	"log/slog"

	"skillswap/config"
	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
	"skillswap/internal/infra/auth/federated"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// tokenVerifier is the subset of *auth.Client the verifier needs.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type verifier struct {
	client tokenVerifier
	logger *slog.Logger
}

// NewVerifier initializes the Firebase app once. Credentials come from
// federated.credentialsPath when set, otherwise Application Default Credentials
// (which honour GOOGLE_APPLICATION_CREDENTIALS).
func NewVerifier(ctx context.Context, cfg *config.FederatedConfig, logger *slog.Logger) (service.IdentityVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Firebase auth client")
	}

	return newVerifier(client, logger), nil
}

func newVerifier(client tokenVerifier, logger *slog.Logger) *verifier {
	return &verifier{client: client, logger: logger}
}

// Verify checks signature, issuer, audience and expiry through the Admin SDK,
// which also applies its own clock-skew allowance.
func (v *verifier) Verify(ctx context.Context, idToken string) (*entity.FederatedClaims, error) {
	if idToken == "" {
		return nil, errors.Wrap(service.ErrInvalidAssertion, "empty id token")
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if auth.IsCertificateFetchFailed(err) {
			v.logger.Error("Firebase public keys unavailable", slog.Any("error", err))

			return nil, errors.Wrap(service.ErrIdentityProviderUnavailable, err.Error())
		}
		v.logger.Warn("Firebase ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(service.ErrInvalidAssertion, err.Error())
	}

	return federated.NormalizeClaims(entity.FederatedProviderFirebase, token.UID, token.Claims)
}

func (v *verifier) Provider() entity.FederatedProvider {
	return entity.FederatedProviderFirebase
}
