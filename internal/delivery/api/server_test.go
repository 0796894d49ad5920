package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap/config"
	apimiddleware "skillswap/internal/delivery/api/middleware"
	"skillswap/internal/delivery/api/router"
	"skillswap/internal/delivery/api/router/handler"
	"skillswap/internal/domain/service"
	"skillswap/internal/infra/auth"
	"skillswap/internal/infra/auth/federated"
	"skillswap/internal/infra/persistence/postgres"
	"skillswap/internal/infra/persistence/sqlitetest"
	"skillswap/internal/infra/ratelimit"
	"skillswap/internal/usecase/impl"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type apiResult struct {
	status int
	body   envelope
}

func (r apiResult) decode(t *testing.T, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body.Data, target))
}

func (r apiResult) errorCode() string {
	if r.body.Error == nil {
		return ""
	}

	return r.body.Error.Code
}

func newAPITestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:           bcrypt.MinCost,
			TokenTTL:             time.Hour,
			MinPasswordLength:    6,
			RequireVerifiedEmail: true,
		},
		RateLimit: &config.RateLimitConfig{},
		Admin:     &config.AdminConfig{},
	}
	cfg.SecretKey.Access = "api-test-secret"
	cfg.HTTP.MaxRequestBodySize = "100KB"

	return cfg
}

// newTestEcho wires the full HTTP stack over an in-memory database.
func newTestEcho(t *testing.T, cfg *config.Config, limiter service.RateLimiter) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := sqlitetest.Open(t)

	userRepo := postgres.NewUserRepository(db)
	txManager := postgres.NewTransactionManager(db)
	hasher := auth.NewBcryptHasher(cfg)
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	resolver := impl.NewAccountResolver(impl.AccountResolverParams{
		UserRepo: userRepo,
		Hasher:   hasher,
		Config:   cfg,
		Logger:   logger,
	})
	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo:     userRepo,
		Resolver:     resolver,
		Hasher:       hasher,
		TokenService: tokenService,
		Verifier:     federated.NewDisabledVerifier(),
		Config:       cfg,
		Logger:       logger,
	})
	skillUC := impl.NewSkillService(impl.SkillServiceParams{
		TxManager: txManager,
		SkillRepo: postgres.NewSkillRepository(db),
		Logger:    logger,
	})
	bookingUC := impl.NewBookingService(impl.BookingServiceParams{
		TxManager: txManager,
		Logger:    logger,
	})

	e := newEcho(cfg, logger)
	router.NewRouter(router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AccountUC: accountUC, Logger: logger}),
		UserHandler:    handler.NewUserHandler(handler.UserHandlerParams{AccountUC: accountUC, Logger: logger}),
		SkillHandler:   handler.NewSkillHandler(handler.SkillHandlerParams{SkillUC: skillUC, Logger: logger}),
		BookingHandler: handler.NewBookingHandler(handler.BookingHandlerParams{BookingUC: bookingUC, Logger: logger}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(apimiddleware.AuthMiddlewareParams{
			TokenService: tokenService,
			Config:       cfg,
			Logger:       logger,
		}),
		RateLimitMiddleware: apimiddleware.NewRateLimitMiddleware(limiter, logger),
		Config:              cfg,
	}).RegisterRoutes(e)

	return e
}

func call(t *testing.T, e *echo.Echo, method, path, token string, body any) apiResult {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	result := apiResult{status: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result.body), rec.Body.String())
	}

	return result
}

type ServerTestSuite struct {
	suite.Suite
	cfg *config.Config
	e   *echo.Echo
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.cfg = newAPITestConfig()
	s.cfg.Admin.Enabled = true
	s.cfg.Admin.UserIDs = []uint64{1}
	s.e = newTestEcho(s.T(), s.cfg, nil)
}

func (s *ServerTestSuite) register(name, email string) (string, handler.UserResponse) {
	res := call(s.T(), s.e, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	s.Require().Equal(http.StatusCreated, res.status, res.errorCode())

	var out handler.AuthResponse
	res.decode(s.T(), &out)
	s.Require().NotEmpty(out.Token)
	s.Equal("Bearer", out.TokenType)

	return out.Token, *out.User
}

func (s *ServerTestSuite) TestHealth() {
	res := call(s.T(), s.e, http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, res.status)
	s.NotEmpty(res.body.Meta.RequestID)
}

func (s *ServerTestSuite) TestRegisterLoginAndMe() {
	token, user := s.register("Alice", "alice@example.com")

	res := call(s.T(), s.e, http.MethodGet, "/api/v1/me", token, nil)
	s.Require().Equal(http.StatusOK, res.status)
	var me handler.UserResponse
	res.decode(s.T(), &me)
	s.Equal(user.ID, me.ID)
	s.Equal("alice@example.com", me.Email)
	s.NotContains(string(res.body.Data), "password")

	res = call(s.T(), s.e, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	s.Equal(http.StatusOK, res.status)
}

func (s *ServerTestSuite) TestRegisterErrors() {
	s.register("Alice", "alice@example.com")

	res := call(s.T(), s.e, http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Again", "email": "alice@example.com", "password": "secret123",
	})
	s.Equal(http.StatusConflict, res.status)
	s.Equal("EMAIL_TAKEN", res.errorCode())

	res = call(s.T(), s.e, http.MethodPost, "/auth/register", "", map[string]any{
		"name": "Weak", "email": "weak@example.com", "password": "123",
	})
	s.Equal(http.StatusBadRequest, res.status)
	s.Equal("WEAK_PASSWORD", res.errorCode())

	res = call(s.T(), s.e, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "noname@example.com", "password": "secret123",
	})
	s.Equal(http.StatusBadRequest, res.status)
	s.Equal("VALIDATION_FAILED", res.errorCode())
	s.NotNil(res.body.Error.Details)
}

func (s *ServerTestSuite) TestLoginFailuresAreUniform() {
	s.register("Alice", "alice@example.com")

	wrongPassword := call(s.T(), s.e, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "nope-nope",
	})
	unknownEmail := call(s.T(), s.e, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "ghost@example.com", "password": "secret123",
	})

	s.Equal(http.StatusUnauthorized, wrongPassword.status)
	s.Equal(wrongPassword.status, unknownEmail.status)
	s.Equal(wrongPassword.errorCode(), unknownEmail.errorCode())
	s.Equal(wrongPassword.body.Error.Message, unknownEmail.body.Error.Message)
}

func (s *ServerTestSuite) TestFederatedDisabled() {
	res := call(s.T(), s.e, http.MethodPost, "/auth/federated", "", map[string]any{"id_token": "anything"})
	s.Equal(http.StatusUnauthorized, res.status)
	s.Equal("INVALID_ASSERTION", res.errorCode())
}

func (s *ServerTestSuite) TestProtectedRoutesRequireToken() {
	for _, token := range []string{"", "not-a-jwt"} {
		res := call(s.T(), s.e, http.MethodGet, "/api/v1/skills", token, nil)
		s.Equal(http.StatusUnauthorized, res.status)
		s.Equal("UNAUTHORIZED", res.errorCode())
		s.Nil(res.body.Error.Details)
	}
}

func (s *ServerTestSuite) TestUsersDirectory() {
	token, alice := s.register("Alice", "alice@example.com")
	s.register("Bob", "bob@example.com")

	res := call(s.T(), s.e, http.MethodGet, "/api/v1/users", token, nil)
	s.Require().Equal(http.StatusOK, res.status)
	var users []handler.UserResponse
	res.decode(s.T(), &users)
	s.Len(users, 2)

	res = call(s.T(), s.e, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), token, nil)
	s.Equal(http.StatusOK, res.status)

	res = call(s.T(), s.e, http.MethodGet, "/api/v1/users/999", token, nil)
	s.Equal(http.StatusNotFound, res.status)
	s.Equal("USER_NOT_FOUND", res.errorCode())

	res = call(s.T(), s.e, http.MethodGet, "/api/v1/users/abc", token, nil)
	s.Equal(http.StatusBadRequest, res.status)
}

func (s *ServerTestSuite) TestBookingFlow() {
	aliceToken, alice := s.register("Alice", "alice@example.com")
	bobToken, bob := s.register("Bob", "bob@example.com")

	res := call(s.T(), s.e, http.MethodPost, "/api/v1/skills", aliceToken, map[string]any{"name": "Go tutoring"})
	s.Require().Equal(http.StatusCreated, res.status)
	var skill handler.SkillResponse
	res.decode(s.T(), &skill)
	s.Equal(alice.ID, skill.OwnerID)
	s.Equal("Alice", skill.OwnerName)

	res = call(s.T(), s.e, http.MethodGet, fmt.Sprintf("/api/v1/skills?user_id=%d", alice.ID), bobToken, nil)
	s.Require().Equal(http.StatusOK, res.status)
	var skills []handler.SkillResponse
	res.decode(s.T(), &skills)
	s.Len(skills, 1)

	res = call(s.T(), s.e, http.MethodPost, "/api/v1/bookings", bobToken, map[string]any{
		"provider_id":    alice.ID,
		"skill_id":       skill.ID,
		"scheduled_at":   "2030-01-02T15:00:00Z",
		"duration_hours": 2,
	})
	s.Require().Equal(http.StatusCreated, res.status, res.errorCode())
	var booking handler.BookingResponse
	res.decode(s.T(), &booking)
	s.Equal("pending", booking.Status)
	s.Equal(bob.ID, booking.CustomerID)

	bookingPath := fmt.Sprintf("/api/v1/bookings/%d", booking.ID)

	// customer may not accept
	res = call(s.T(), s.e, http.MethodPatch, bookingPath+"/status", bobToken, map[string]any{"status": "accepted"})
	s.Equal(http.StatusForbidden, res.status)

	res = call(s.T(), s.e, http.MethodPatch, bookingPath+"/status", aliceToken, map[string]any{"status": "accepted"})
	s.Require().Equal(http.StatusOK, res.status)

	res = call(s.T(), s.e, http.MethodPatch, bookingPath+"/status", aliceToken, map[string]any{"status": "pending"})
	s.Equal(http.StatusConflict, res.status)
	s.Equal("INVALID_TRANSITION", res.errorCode())

	res = call(s.T(), s.e, http.MethodPatch, bookingPath+"/status", aliceToken, map[string]any{"status": "bogus"})
	s.Equal(http.StatusBadRequest, res.status)
	s.Equal("INVALID_STATUS", res.errorCode())

	res = call(s.T(), s.e, http.MethodPost, bookingPath+"/cancel", bobToken, nil)
	s.Require().Equal(http.StatusOK, res.status)
	res.decode(s.T(), &booking)
	s.Equal("cancelled", booking.Status)

	res = call(s.T(), s.e, http.MethodGet, "/api/v1/bookings?role=provider", aliceToken, nil)
	s.Require().Equal(http.StatusOK, res.status)
	var bookings []handler.BookingResponse
	res.decode(s.T(), &bookings)
	s.Len(bookings, 1)

	res = call(s.T(), s.e, http.MethodGet, bookingPath, aliceToken, nil)
	s.Equal(http.StatusOK, res.status)
}

func (s *ServerTestSuite) TestBookingValidation() {
	aliceToken, alice := s.register("Alice", "alice@example.com")

	res := call(s.T(), s.e, http.MethodPost, "/api/v1/skills", aliceToken, map[string]any{"name": "Chess"})
	s.Require().Equal(http.StatusCreated, res.status)
	var skill handler.SkillResponse
	res.decode(s.T(), &skill)

	res = call(s.T(), s.e, http.MethodPost, "/api/v1/bookings", aliceToken, map[string]any{
		"provider_id": alice.ID, "skill_id": skill.ID, "duration_hours": 1,
	})
	s.Equal(http.StatusBadRequest, res.status)
	s.Equal("SELF_BOOKING", res.errorCode())

	res = call(s.T(), s.e, http.MethodPost, "/api/v1/bookings", aliceToken, map[string]any{
		"provider_id": alice.ID, "skill_id": skill.ID, "duration_hours": -1,
	})
	s.Equal(http.StatusBadRequest, res.status)
	s.Equal("INVALID_DURATION", res.errorCode())
}

func (s *ServerTestSuite) TestAdminDelete() {
	adminToken, admin := s.register("Admin", "admin@example.com")
	s.Require().Equal(uint64(1), admin.ID)
	bobToken, _ := s.register("Bob", "bob@example.com")

	res := call(s.T(), s.e, http.MethodPost, "/api/v1/skills", adminToken, map[string]any{"name": "Piano"})
	s.Require().Equal(http.StatusCreated, res.status)
	var skill handler.SkillResponse
	res.decode(s.T(), &skill)

	res = call(s.T(), s.e, http.MethodPost, "/api/v1/bookings", bobToken, map[string]any{
		"provider_id": admin.ID, "skill_id": skill.ID, "duration_hours": 1,
	})
	s.Require().Equal(http.StatusCreated, res.status)
	var booking handler.BookingResponse
	res.decode(s.T(), &booking)

	path := fmt.Sprintf("/admin/bookings/%d", booking.ID)

	res = call(s.T(), s.e, http.MethodDelete, path, bobToken, nil)
	s.Equal(http.StatusForbidden, res.status)

	res = call(s.T(), s.e, http.MethodDelete, path, adminToken, nil)
	s.Equal(http.StatusNoContent, res.status)

	res = call(s.T(), s.e, http.MethodDelete, path, adminToken, nil)
	s.Equal(http.StatusNotFound, res.status)
	s.Equal("BOOKING_NOT_FOUND", res.errorCode())
}

func TestAdminRoutesDisabled(t *testing.T) {
	e := newTestEcho(t, newAPITestConfig(), nil)

	req := httptest.NewRequest(http.MethodDelete, "/admin/bookings/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRoutesRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := ratelimit.NewFixedWindowLimiter(client, "test", 2, time.Minute)
	require.NoError(t, err)

	cfg := newAPITestConfig()
	cfg.RateLimit.Enabled = true
	e := newTestEcho(t, cfg, limiter)

	login := map[string]any{"email": "ghost@example.com", "password": "secret123"}
	for range 2 {
		res := call(t, e, http.MethodPost, "/auth/login", "", login)
		require.Equal(t, http.StatusUnauthorized, res.status)
	}

	res := call(t, e, http.MethodPost, "/auth/login", "", login)
	require.Equal(t, http.StatusTooManyRequests, res.status)
	require.Equal(t, "RATE_LIMITED", res.errorCode())

	// other routes are not limited
	res = call(t, e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, res.status)
}
