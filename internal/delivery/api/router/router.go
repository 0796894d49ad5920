// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"skillswap/config"
	"skillswap/internal/delivery/api/middleware"
	"skillswap/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	SkillHandler        *handler.SkillHandler
	BookingHandler      *handler.BookingHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	skillHandler        *handler.SkillHandler
	bookingHandler      *handler.BookingHandler
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	config              *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		userHandler:         params.UserHandler,
		skillHandler:        params.SkillHandler,
		bookingHandler:      params.BookingHandler,
		authMiddleware:      params.AuthMiddleware,
		rateLimitMiddleware: params.RateLimitMiddleware,
		config:              params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	if r.config.RateLimit != nil && r.config.RateLimit.Enabled {
		authGroup.Use(r.rateLimitMiddleware.Limit)
	}
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/federated", r.authHandler.FederatedLogin)
	}

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require authentication

	apiV1.GET("/me", r.authHandler.Me)

	usersGroup := apiV1.Group("/users")
	{
		usersGroup.GET("", r.userHandler.ListUsers)
		usersGroup.GET("/:id", r.userHandler.GetUser)
	}

	skillsGroup := apiV1.Group("/skills")
	{
		skillsGroup.GET("", r.skillHandler.ListSkills)
		skillsGroup.POST("", r.skillHandler.AddSkill)
		skillsGroup.GET("/:id", r.skillHandler.GetSkill)
	}

	bookingsGroup := apiV1.Group("/bookings")
	{
		bookingsGroup.POST("", r.bookingHandler.CreateBooking)
		bookingsGroup.GET("", r.bookingHandler.ListBookings)
		bookingsGroup.GET("/:id", r.bookingHandler.GetBooking)
		bookingsGroup.PATCH("/:id/status", r.bookingHandler.UpdateBookingStatus)
		bookingsGroup.POST("/:id/cancel", r.bookingHandler.CancelBooking)
	}

	r.registerAdminRoutes(e)
}

// registerAdminRoutes is a no-op unless admin.enabled is set.
func (r *router) registerAdminRoutes(e *echo.Echo) {
	if r.config.Admin == nil || !r.config.Admin.Enabled {
		return
	}

	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireAdmin)
	{
		adminGroup.DELETE("/bookings/:id", r.bookingHandler.DeleteBooking)
	}
}
