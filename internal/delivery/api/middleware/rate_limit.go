package middleware

import (
	"log/slog"

	deliverycontext "skillswap/internal/delivery/context"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles requests per route and client address.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	logger  *slog.Logger
}

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(limiter service.RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

// Limit rejects the request with 429 once its "route:ip" key is over quota.
// Limiter failures reject as well.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Path() + ":" + c.RealIP()

		allowed, err := m.limiter.Allow(c.Request().Context(), key)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Error("Rate limiter unavailable, rejecting request", slog.String("key", key), slog.Any("error", err))

			return domainerrors.ErrRateLimited
		}
		if !allowed {
			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}
