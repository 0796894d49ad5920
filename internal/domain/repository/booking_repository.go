package repository

import (
	"context"
	"errors"

	"skillswap/internal/domain/entity"
)

// ErrBookingNotFound is returned when no booking matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uint64) (*entity.Booking, error)

	// FindByIDForUpdate loads the booking and locks its row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint64) (*entity.Booking, error)

	// UpdateStatus writes status and refreshes UpdatedAt on booking.
	UpdateStatus(ctx context.Context, booking *entity.Booking, status entity.BookingStatus) error

	List(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error)

	// Delete removes the row. Returns ErrBookingNotFound when nothing was deleted.
	Delete(ctx context.Context, id uint64) error
}
