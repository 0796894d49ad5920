// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"skillswap/config"
	deliverycontext "skillswap/internal/delivery/context"
	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
	"skillswap/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// federatedCredentialPrefix marks accounts provisioned through federated login.
// The value is not a bcrypt hash, so password checks against it always fail.
const federatedCredentialPrefix = "!federated:"

type accountResolver struct {
	userRepo             repository.UserRepository
	hasher               service.PasswordHasher
	decoyHash            string
	requireVerifiedEmail bool
	logger               *slog.Logger
}

// AccountResolverParams holds dependencies for the account resolver, injected by Fx.
type AccountResolverParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Config   *config.Config
	Logger   *slog.Logger
}

// NewAccountResolver is the constructor for accountResolver.
func NewAccountResolver(params AccountResolverParams) usecase.AccountResolver {
	requireVerified := true
	if params.Config != nil && params.Config.Auth != nil {
		requireVerified = params.Config.Auth.RequireVerifiedEmail
	}

	// Logins that cannot match still pay one full hash comparison against decoyHash,
	// so response time does not tell unknown or federated-only emails apart.
	decoyHash, err := params.Hasher.Hash(uuid.NewString())
	if err != nil {
		params.Logger.Warn("Failed to prepare decoy password hash", slog.Any("error", err))
	}

	return &accountResolver{
		userRepo:             params.UserRepo,
		hasher:               params.Hasher,
		decoyHash:            decoyHash,
		requireVerifiedEmail: requireVerified,
		logger:               params.Logger,
	}
}

func (r *accountResolver) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, r.logger)
}

// ResolveOrProvision runs outside a transaction: a lost insert race surfaces as
// ErrEmailTaken, and the winner's row is then read back.
func (r *accountResolver) ResolveOrProvision(ctx context.Context, claims *entity.FederatedClaims) (*entity.User, error) {
	if claims == nil || strings.TrimSpace(claims.Email) == "" {
		return nil, domainerrors.ErrMissingEmail
	}
	if r.requireVerifiedEmail && !claims.EmailVerified {
		r.log(ctx).Warn("Federated login rejected", slog.String("provider", string(claims.Provider)), slog.String("reason", "unverified_email"))

		return nil, domainerrors.ErrUnverifiedEmail
	}

	existing, err := r.userRepo.FindByEmail(ctx, claims.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to look up federated account")
	}

	newUser := &entity.User{
		Name:         displayNameOrDefault(claims),
		Email:        claims.Email,
		PasswordHash: federatedCredentialPrefix + uuid.NewString(),
	}

	if err := r.userRepo.Create(ctx, newUser); err != nil {
		if !errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, errors.Wrap(err, "failed to provision federated account")
		}

		winner, findErr := r.userRepo.FindByEmail(ctx, claims.Email)
		if findErr != nil {
			return nil, errors.Wrap(findErr, "failed to re-read account after concurrent provisioning")
		}

		return winner, nil
	}

	r.log(ctx).Info("Provisioned federated account", slog.Uint64("userID", newUser.ID), slog.String("provider", string(claims.Provider)))

	return newUser, nil
}

func (r *accountResolver) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := r.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		r.hasher.Check(password, r.decoyHash)
		r.log(ctx).Warn("Login failed", slog.String("reason", "unknown_email"))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if strings.HasPrefix(user.PasswordHash, federatedCredentialPrefix) {
		r.hasher.Check(password, r.decoyHash)
		r.log(ctx).Warn("Login failed", slog.String("reason", "federated_only"), slog.Uint64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !r.hasher.Check(password, user.PasswordHash) {
		r.log(ctx).Warn("Login failed", slog.String("reason", "password_mismatch"), slog.Uint64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return user, nil
}

func displayNameOrDefault(claims *entity.FederatedClaims) string {
	if name := strings.TrimSpace(claims.DisplayName); name != "" {
		return name
	}

	if at := strings.Index(claims.Email, "@"); at > 0 {
		return claims.Email[:at]
	}

	return claims.Email
}
