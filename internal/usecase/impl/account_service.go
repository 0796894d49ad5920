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

	"go.uber.org/fx"
)

const defaultMinPasswordLength = 6

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo          repository.UserRepository
	resolver          usecase.AccountResolver
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	verifier          service.IdentityVerifier
	minPasswordLength int
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Resolver     usecase.AccountResolver
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Verifier     service.IdentityVerifier
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	minLen := defaultMinPasswordLength
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MinPasswordLength > 0 {
		minLen = params.Config.Auth.MinPasswordLength
	}

	return &accountService{
		userRepo:          params.UserRepo,
		resolver:          params.Resolver,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		verifier:          params.Verifier,
		minPasswordLength: minLen,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a password account and signs the user in.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name and email are required")
	}

	if len(input.Password) < srv.minPasswordLength {
		return nil, domainerrors.ErrWeakPassword
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Bio:          input.Bio,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			srv.log(ctx).Info("Registration rejected", slog.String("reason", "email_taken"))
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.log(ctx).Info("User registered", slog.Uint64("userID", newUser.ID))

	return srv.issue(ctx, newUser)
}

func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.resolver.Authenticate(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		return nil, err
	}

	return srv.issue(ctx, user)
}

// FederatedLogin exchanges a verified external identity token for a local session.
func (srv *accountService) FederatedLogin(ctx context.Context, input *usecase.FederatedLoginInput) (*usecase.AuthOutput, error) {
	claims, err := srv.verifier.Verify(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Federated token rejected", slog.String("provider", string(srv.verifier.Provider())), slog.Any("error", err))

		return nil, mapVerifierError(err)
	}

	user, err := srv.resolver.ResolveOrProvision(ctx, claims)
	if err != nil {
		return nil, err
	}

	return srv.issue(ctx, user)
}

func (srv *accountService) WhoAmI(ctx context.Context, userID uint64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		// The token outlived its account.
		return nil, domainerrors.ErrUnauthorized
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user, nil
}

func (srv *accountService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func (srv *accountService) GetUser(ctx context.Context, userID uint64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	return user, nil
}

func (srv *accountService) issue(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.Issue(user.ID, srv.tokenService.DefaultTTL())
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Uint64("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &usecase.AuthOutput{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	}, nil
}

func mapVerifierError(err error) error {
	switch {
	case errors.Is(err, service.ErrMissingEmail):
		return domainerrors.ErrMissingEmail
	case errors.Is(err, service.ErrIdentityProviderUnavailable):
		return domainerrors.ErrIdentityProviderUnavailable
	case errors.Is(err, service.ErrInvalidAssertion):
		return domainerrors.ErrInvalidAssertion
	default:
		return errors.Wrap(domainerrors.ErrIdentityProviderUnavailable, err.Error())
	}
}
