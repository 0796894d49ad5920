package usecase

import (
	"context"

	"skillswap/internal/domain/entity"
)

// CreateBookingInput is a customer's request for a provider's skill.
type CreateBookingInput struct {
	CustomerID uint64
	ProviderID uint64
	SkillID    uint64

	// ScheduledAt accepts RFC 3339, "2006-01-02T15:04:05" or "2006-01-02".
	ScheduledAt *string

	// DurationHours defaults to one hour when zero.
	DurationHours int
	Notes         *string
}

// TransitionBookingInput moves a booking to Status on behalf of ActorID.
type TransitionBookingInput struct {
	BookingID uint64
	ActorID   uint64
	Status    string
}

// ListBookingsInput filters the actor's bookings. Empty Role and Status match everything.
type ListBookingsInput struct {
	ActorID uint64
	Role    string
	Status  string
}

// BookingUsecase runs the booking state machine.
type BookingUsecase interface {
	Create(ctx context.Context, input *CreateBookingInput) (*entity.Booking, error)
	Transition(ctx context.Context, input *TransitionBookingInput) (*entity.Booking, error)

	// Cancel is allowed for either participant. Cancelling twice is a no-op.
	Cancel(ctx context.Context, bookingID, actorID uint64) (*entity.Booking, error)

	View(ctx context.Context, bookingID, actorID uint64) (*entity.Booking, error)
	List(ctx context.Context, input *ListBookingsInput) ([]*entity.Booking, error)

	// Delete removes the booking row. Callers must have checked administrative rights.
	Delete(ctx context.Context, bookingID uint64) error
}
