package middleware

import (
	"log/slog"
	"slices"

	"skillswap/config"
	deliverycontext "skillswap/internal/delivery/context"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/service"
	"skillswap/internal/errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ContextKeyUserID is where Authenticate stores the caller's id.
const ContextKeyUserID = string(deliverycontext.KeyUserID)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// AuthMiddleware provides middleware for bearer authentication and admin authorization.
type AuthMiddleware struct {
	authenticate echo.MiddlewareFunc
	adminIDs     []uint64
	logger       *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	m := &AuthMiddleware{logger: params.Logger}
	if params.Config != nil && params.Config.Admin != nil {
		m.adminIDs = params.Config.Admin.UserIDs
	}

	m.authenticate = echojwt.WithConfig(echojwt.Config{
		ContextKey: ContextKeyUserID,
		ParseTokenFunc: func(_ echo.Context, auth string) (any, error) {
			return params.TokenService.Validate(auth)
		},
		ErrorHandler: m.rejectToken,
	})

	return m
}

// Authenticate validates the "Authorization: Bearer" token and stores the subject
// under ContextKeyUserID. Every failure is a uniform 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next)
}

func (m *AuthMiddleware) rejectToken(c echo.Context, err error) error {
	reason := "malformed"
	switch {
	case errors.Is(err, echojwt.ErrJWTMissing):
		reason = "missing"
	case errors.Is(err, service.ErrTokenExpired):
		reason = "expired"
	case errors.Is(err, service.ErrTokenMissingClaim):
		reason = "missing_claim"
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
		Debug("Bearer token rejected", slog.String("reason", reason))

	return domainerrors.ErrUnauthorized
}

// RequireAdmin allows only the configured administrator ids.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := GetUserID(c)
		if !ok {
			return domainerrors.ErrUnauthorized
		}

		if !slices.Contains(m.adminIDs, userID) {
			return domainerrors.ErrForbidden.WithDetails("administrator access required")
		}

		return next(c)
	}
}

// GetUserID returns the authenticated caller set by Authenticate.
func GetUserID(c echo.Context) (uint64, bool) {
	return deliverycontext.GetUserID(c)
}
