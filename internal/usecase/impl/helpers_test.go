package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"skillswap/config"
	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
	"skillswap/internal/infra/auth"
	"skillswap/internal/infra/persistence/postgres"
	"skillswap/internal/infra/persistence/sqlitetest"
	mockSvc "skillswap/internal/mocks/service"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:           bcrypt.MinCost,
			TokenTTL:             time.Hour,
			MinPasswordLength:    6,
			RequireVerifiedEmail: true,
		},
	}
	cfg.SecretKey.Access = "test-secret"

	return cfg
}

// testStore is a migrated sqlite database with real repositories on top.
type testStore struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db := sqlitetest.Open(t)

	return &testStore{
		txManager: postgres.NewTransactionManager(db),
		userRepo:  postgres.NewUserRepository(db),
		skillRepo: postgres.NewSkillRepository(db),
	}
}

func (s *testStore) seedUser(t *testing.T, name, email string) *entity.User {
	t.Helper()

	user := &entity.User{Name: name, Email: email, PasswordHash: "seeded"}
	require.NoError(t, s.userRepo.Create(context.Background(), user))

	return user
}

func (s *testStore) seedSkill(t *testing.T, owner *entity.User, name string) *entity.Skill {
	t.Helper()

	skill := &entity.Skill{Name: name, OwnerID: owner.ID}
	require.NoError(t, s.skillRepo.Create(context.Background(), skill))

	return skill
}

// accountFixtures holds all dependencies for account service tests.
type accountFixtures struct {
	service  *accountService
	store    *testStore
	verifier *mockSvc.MockIdentityVerifier
	tokens   service.TokenService
}

func newAccountFixtures(t *testing.T) accountFixtures {
	t.Helper()

	cfg := newTestConfig()
	store := newTestStore(t)
	verifier := mockSvc.NewMockIdentityVerifier(t)
	hasher := auth.NewBcryptHasher(cfg)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	logger := newDiscardLogger()
	resolver := NewAccountResolver(AccountResolverParams{
		UserRepo: store.userRepo,
		Hasher:   hasher,
		Config:   cfg,
		Logger:   logger,
	})

	srv := NewAccountService(AccountServiceParams{
		UserRepo:     store.userRepo,
		Resolver:     resolver,
		Hasher:       hasher,
		TokenService: tokens,
		Verifier:     verifier,
		Config:       cfg,
		Logger:       logger,
	}).(*accountService)

	return accountFixtures{
		service:  srv,
		store:    store,
		verifier: verifier,
		tokens:   tokens,
	}
}

func newTestBookingService(store *testStore) *bookingService {
	return NewBookingService(BookingServiceParams{
		TxManager: store.txManager,
		Logger:    newDiscardLogger(),
	}).(*bookingService)
}

func newTestSkillService(store *testStore) *skillService {
	return NewSkillService(SkillServiceParams{
		TxManager: store.txManager,
		SkillRepo: store.skillRepo,
		Logger:    newDiscardLogger(),
	}).(*skillService)
}

func strPtr(s string) *string {
	return &s
}
