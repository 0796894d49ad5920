package impl

import (
	"context"
	"strings"
	"testing"

	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"
	mockSvc "skillswap/internal/mocks/service"
	"skillswap/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegisterThenLogin(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	bio := "tutor"
	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: "secret1",
		Bio:      &bio,
	})
	require.NoError(t, err)
	require.NotNil(t, registered.User)
	assert.NotEmpty(t, registered.Token)
	assert.NotEqual(t, "secret1", registered.User.PasswordHash)

	subject, err := fx.tokens.Validate(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, subject)

	loggedIn, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.False(t, loggedIn.ExpiresAt.IsZero())
}

func TestAccountService_RegisterRejectsWeakPassword(t *testing.T) {
	fx := newAccountFixtures(t)

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "12345",
	})
	require.ErrorIs(t, err, domainerrors.ErrWeakPassword)

	_, err = fx.store.userRepo.FindByEmail(context.Background(), "alice@x.com")
	assert.Error(t, err, "nothing is persisted")
}

func TestAccountService_RegisterRejectsMissingFields(t *testing.T) {
	fx := newAccountFixtures(t)

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name: "  ", Email: "alice@x.com", Password: "secret1",
	})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAccountService_RegisterEmailTaken(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, &usecase.RegisterInput{Name: "Other", Email: "alice@x.com", Password: "secret2"})
	require.ErrorIs(t, err, domainerrors.ErrEmailTaken)

	appErr, ok := errors.AsType[domainerrors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode())
}

func TestAccountService_LoginFailuresAreIndistinguishable(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := fx.service.Login(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "wrong-password"})
	_, unknownEmail := fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "secret1"})

	require.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAccountService_FederatedLoginProvisionsOnce(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	claims := &entity.FederatedClaims{
		Provider:      entity.FederatedProviderFirebase,
		Subject:       "firebase-uid-1",
		Email:         "carol@x.com",
		EmailVerified: true,
		DisplayName:   "Carol",
	}
	fx.verifier.EXPECT().Verify(ctx, "carol-token").Return(claims, nil).Twice()

	first, err := fx.service.FederatedLogin(ctx, &usecase.FederatedLoginInput{IDToken: "carol-token"})
	require.NoError(t, err)
	assert.Equal(t, "carol@x.com", first.User.Email)
	assert.Equal(t, "Carol", first.User.Name)
	assert.True(t, strings.HasPrefix(first.User.PasswordHash, federatedCredentialPrefix))

	second, err := fx.service.FederatedLogin(ctx, &usecase.FederatedLoginInput{IDToken: "carol-token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	users, err := fx.service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	// The placeholder credential never authenticates.
	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "carol@x.com", Password: first.User.PasswordHash})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_FederatedLoginMergesWithPasswordAccount(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{Name: "Dave", Email: "dave@x.com", Password: "secret1"})
	require.NoError(t, err)

	fx.verifier.EXPECT().Verify(ctx, "dave-token").Return(&entity.FederatedClaims{
		Provider:      entity.FederatedProviderGoogle,
		Subject:       "google-sub",
		Email:         "dave@x.com",
		EmailVerified: true,
	}, nil).Once()

	out, err := fx.service.FederatedLogin(ctx, &usecase.FederatedLoginInput{IDToken: "dave-token"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, out.User.ID)
}

func TestAccountService_FederatedLoginRejectsUnverifiedEmail(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	fx.verifier.EXPECT().Verify(ctx, "tok").Return(&entity.FederatedClaims{
		Provider: entity.FederatedProviderFirebase,
		Email:    "eve@x.com",
	}, nil).Once()

	_, err := fx.service.FederatedLogin(ctx, &usecase.FederatedLoginInput{IDToken: "tok"})
	require.ErrorIs(t, err, domainerrors.ErrUnverifiedEmail)
}

func TestAccountService_FederatedLoginVerifierErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "invalid assertion", err: errors.Wrap(service.ErrInvalidAssertion, "bad signature"), wantErr: domainerrors.ErrInvalidAssertion},
		{name: "missing email", err: service.ErrMissingEmail, wantErr: domainerrors.ErrMissingEmail},
		{name: "provider down", err: service.ErrIdentityProviderUnavailable, wantErr: domainerrors.ErrIdentityProviderUnavailable},
		{name: "unknown", err: errors.New("socket closed"), wantErr: domainerrors.ErrIdentityProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newAccountFixtures(t)
			ctx := context.Background()

			fx.verifier.EXPECT().Verify(ctx, "tok").Return(nil, tt.err).Once()
			fx.verifier.EXPECT().Provider().Return(entity.FederatedProviderFirebase).Maybe()

			_, err := fx.service.FederatedLogin(ctx, &usecase.FederatedLoginInput{IDToken: "tok"})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountService_WhoAmI(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	user := fx.store.seedUser(t, "Alice", "alice@x.com")

	got, err := fx.service.WhoAmI(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = fx.service.WhoAmI(ctx, user.ID+100)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAccountService_GetUser(t *testing.T) {
	fx := newAccountFixtures(t)
	ctx := context.Background()

	user := fx.store.seedUser(t, "Alice", "alice@x.com")

	got, err := fx.service.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = fx.service.GetUser(ctx, 999)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_HashAndTokenFailures(t *testing.T) {
	cfg := newTestConfig()
	store := newTestStore(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockSvc.NewMockTokenService(t)
	logger := newDiscardLogger()

	hasher.EXPECT().Hash(mock.AnythingOfType("string")).Return("$2a$04$decoy", nil).Once()

	srv := NewAccountService(AccountServiceParams{
		UserRepo:     store.userRepo,
		Resolver:     NewAccountResolver(AccountResolverParams{UserRepo: store.userRepo, Hasher: hasher, Config: cfg, Logger: logger}),
		Hasher:       hasher,
		TokenService: tokens,
		Verifier:     mockSvc.NewMockIdentityVerifier(t),
		Config:       cfg,
		Logger:       logger,
	})
	ctx := context.Background()

	hasher.EXPECT().Hash("secret1").Return("", errors.New("entropy exhausted")).Once()
	_, err := srv.Register(ctx, &usecase.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)

	hasher.EXPECT().Hash("secret2").Return("$2a$04$fake", nil).Once()
	tokens.EXPECT().DefaultTTL().Return(0).Once()
	tokens.EXPECT().Issue(mock.AnythingOfType("uint64"), mock.Anything).Return(nil, errors.New("signing failed")).Once()
	_, err = srv.Register(ctx, &usecase.RegisterInput{Name: "B", Email: "b@x.com", Password: "secret2"})
	require.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}
