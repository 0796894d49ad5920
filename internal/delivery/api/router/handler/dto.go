package handler

import (
	"strconv"
	"time"

	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register, login and federated login.
type AuthResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

type SkillResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type BookingResponse struct {
	ID            uint64     `json:"id"`
	CustomerID    uint64     `json:"customer_id"`
	ProviderID    uint64     `json:"provider_id"`
	SkillID       uint64     `json:"skill_id"`
	Status        string     `json:"status"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	DurationHours int        `json:"duration_hours"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

func toAuthResponse(out *usecase.AuthOutput) *AuthResponse {
	return &AuthResponse{
		Token:     out.Token,
		TokenType: "Bearer",
		ExpiresAt: out.ExpiresAt,
		User:      toUserResponse(out.User),
	}
}

func toSkillResponse(skill *entity.Skill) *SkillResponse {
	return &SkillResponse{
		ID:          skill.ID,
		Name:        skill.Name,
		Description: skill.Description,
		OwnerID:     skill.OwnerID,
		OwnerName:   skill.OwnerName,
		CreatedAt:   skill.CreatedAt,
	}
}

func toBookingResponse(booking *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            booking.ID,
		CustomerID:    booking.CustomerID,
		ProviderID:    booking.ProviderID,
		SkillID:       booking.SkillID,
		Status:        string(booking.Status),
		ScheduledAt:   booking.ScheduledAt,
		DurationHours: booking.DurationHours,
		Notes:         booking.Notes,
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return out
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails(name + " must be a positive integer")
	}

	return id, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return c.Validate(req)
}
