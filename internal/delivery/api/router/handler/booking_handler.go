package handler

import (
	"log/slog"
	"net/http"

	"skillswap/internal/delivery/api/middleware"
	"skillswap/internal/delivery/api/response"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/errors"
	"skillswap/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BookingHandlerParams holds dependencies for BookingHandler, injected by Fx.
type BookingHandlerParams struct {
	fx.In

	BookingUC usecase.BookingUsecase
	Logger    *slog.Logger
}

// BookingHandler exposes the booking state machine.
type BookingHandler struct {
	bookingUC usecase.BookingUsecase
	logger    *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler.
func NewBookingHandler(params BookingHandlerParams) *BookingHandler {
	return &BookingHandler{
		bookingUC: params.BookingUC,
		logger:    params.Logger,
	}
}

// CreateBookingRequest is the body of POST /api/v1/bookings.
type CreateBookingRequest struct {
	ProviderID    uint64  `json:"provider_id" validate:"required"`
	SkillID       uint64  `json:"skill_id" validate:"required"`
	ScheduledAt   *string `json:"scheduled_at"`
	DurationHours int     `json:"duration_hours"`
	Notes         *string `json:"notes"`
}

// UpdateBookingStatusRequest is the body of PATCH /api/v1/bookings/:id/status.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateBooking handles POST /api/v1/bookings. The caller is the customer.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingUC.Create(c.Request().Context(), &usecase.CreateBookingInput{
		CustomerID:    userID,
		ProviderID:    req.ProviderID,
		SkillID:       req.SkillID,
		ScheduledAt:   req.ScheduledAt,
		DurationHours: req.DurationHours,
		Notes:         req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toBookingResponse(booking))
}

// ListBookings handles GET /api/v1/bookings?role=&status=.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	bookings, err := h.bookingUC.List(c.Request().Context(), &usecase.ListBookingsInput{
		ActorID: userID,
		Role:    c.QueryParam("role"),
		Status:  c.QueryParam("status"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(bookings, toBookingResponse))
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingUC.View(c.Request().Context(), bookingID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toBookingResponse(booking))
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateBookingStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingUC.Transition(c.Request().Context(), &usecase.TransitionBookingInput{
		BookingID: bookingID,
		ActorID:   userID,
		Status:    req.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.bookingUC.Cancel(c.Request().Context(), bookingID, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toBookingResponse(booking))
}

// DeleteBooking handles DELETE /admin/bookings/:id.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookingUC.Delete(c.Request().Context(), bookingID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}
