package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	deliverycontext "skillswap/internal/delivery/context"
	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/repository"
	"skillswap/internal/errors"
	"skillswap/internal/usecase"

	"go.uber.org/fx"
)

// scheduleLayouts are tried in order when parsing a requested booking time.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type bookingService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// BookingServiceParams holds dependencies for BookingService, injected by Fx.
type BookingServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewBookingService is the constructor for bookingService.
func NewBookingService(params BookingServiceParams) usecase.BookingUsecase {
	return &bookingService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

func (srv *bookingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create validates the request, then checks skill, provider and ownership inside
// one transaction before inserting a pending booking.
func (srv *bookingService) Create(ctx context.Context, input *usecase.CreateBookingInput) (*entity.Booking, error) {
	duration := input.DurationHours
	if duration == 0 {
		duration = entity.DefaultBookingDurationHours
	}
	if duration < 0 {
		return nil, domainerrors.ErrInvalidDuration
	}

	scheduledAt, err := parseSchedule(input.ScheduledAt)
	if err != nil {
		return nil, err
	}

	if input.CustomerID == input.ProviderID {
		return nil, domainerrors.ErrSelfBooking
	}

	booking := &entity.Booking{
		CustomerID:    input.CustomerID,
		ProviderID:    input.ProviderID,
		SkillID:       input.SkillID,
		Status:        entity.BookingStatusPending,
		ScheduledAt:   scheduledAt,
		DurationHours: duration,
		Notes:         input.Notes,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		skill, err := repoFactory.SkillRepo().FindByID(ctx, input.SkillID)
		if errors.Is(err, repository.ErrSkillNotFound) {
			return domainerrors.ErrSkillNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load skill for booking")
		}

		if _, err := repoFactory.UserRepo().FindByID(ctx, input.ProviderID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrProviderNotFound
			}

			return errors.Wrap(err, "failed to load provider for booking")
		}

		if skill.OwnerID != input.ProviderID {
			return domainerrors.ErrSkillOwnerMismatch
		}

		if err := repoFactory.BookingRepo().Create(ctx, booking); err != nil {
			return errors.Wrap(err, "failed to create booking")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Booking created",
		slog.Uint64("bookingID", booking.ID),
		slog.Uint64("customerID", booking.CustomerID),
		slog.Uint64("providerID", booking.ProviderID),
	)

	return booking, nil
}

// Transition applies a provider-driven status change. Cancellation follows the cancel rules.
func (srv *bookingService) Transition(ctx context.Context, input *usecase.TransitionBookingInput) (*entity.Booking, error) {
	next := entity.BookingStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !next.IsValid() {
		return nil, domainerrors.ErrInvalidStatus.WithDetails(fmt.Sprintf("unknown status %q", input.Status))
	}

	var result *entity.Booking
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookingRepo := repoFactory.BookingRepo()

		booking, err := loadBookingForUpdate(ctx, bookingRepo, input.BookingID)
		if err != nil {
			return err
		}

		if next == entity.BookingStatusCancelled {
			result, err = srv.cancelLocked(ctx, bookingRepo, booking, input.ActorID)

			return err
		}

		if booking.ProviderID != input.ActorID {
			return domainerrors.ErrForbidden.WithDetails("only the provider may change the booking status")
		}

		if !booking.Status.CanTransitionTo(next) {
			return domainerrors.ErrInvalidTransition.WithDetails(fmt.Sprintf("%s -> %s", booking.Status, next))
		}

		if err := bookingRepo.UpdateStatus(ctx, booking, next); err != nil {
			return errors.Wrap(err, "failed to update booking status")
		}
		result = booking

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Booking status changed", slog.Uint64("bookingID", result.ID), slog.String("status", string(result.Status)))

	return result, nil
}

func (srv *bookingService) Cancel(ctx context.Context, bookingID, actorID uint64) (*entity.Booking, error) {
	var result *entity.Booking
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookingRepo := repoFactory.BookingRepo()

		booking, err := loadBookingForUpdate(ctx, bookingRepo, bookingID)
		if err != nil {
			return err
		}

		result, err = srv.cancelLocked(ctx, bookingRepo, booking, actorID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// cancelLocked expects booking to be row-locked by the caller's transaction.
func (srv *bookingService) cancelLocked(ctx context.Context, bookingRepo repository.BookingRepository, booking *entity.Booking, actorID uint64) (*entity.Booking, error) {
	if !booking.IsParticipant(actorID) {
		return nil, domainerrors.ErrForbidden.WithDetails("only participants may cancel a booking")
	}

	switch booking.Status {
	case entity.BookingStatusCancelled:
		srv.log(ctx).Debug("Booking already cancelled", slog.Uint64("bookingID", booking.ID))

		return booking, nil
	case entity.BookingStatusCompleted:
		return nil, domainerrors.ErrInvalidTransition.WithDetails("completed bookings cannot be cancelled")
	}

	if err := bookingRepo.UpdateStatus(ctx, booking, entity.BookingStatusCancelled); err != nil {
		return nil, errors.Wrap(err, "failed to cancel booking")
	}

	srv.log(ctx).Info("Booking cancelled", slog.Uint64("bookingID", booking.ID), slog.Uint64("actorID", actorID))

	return booking, nil
}

func (srv *bookingService) View(ctx context.Context, bookingID, actorID uint64) (*entity.Booking, error) {
	var result *entity.Booking
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		booking, err := repoFactory.BookingRepo().FindByID(ctx, bookingID)
		if errors.Is(err, repository.ErrBookingNotFound) {
			return domainerrors.ErrBookingNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load booking")
		}

		if !booking.IsParticipant(actorID) {
			return domainerrors.ErrForbidden.WithDetails("only participants may view a booking")
		}
		result = booking

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (srv *bookingService) List(ctx context.Context, input *usecase.ListBookingsInput) ([]*entity.Booking, error) {
	filter := entity.BookingFilter{ParticipantID: input.ActorID}

	switch role := entity.BookingRole(strings.ToLower(strings.TrimSpace(input.Role))); role {
	case entity.BookingRoleAny, entity.BookingRoleCustomer, entity.BookingRoleProvider:
		filter.Role = role
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("role must be customer or provider")
	}

	if raw := strings.TrimSpace(input.Status); raw != "" {
		status := entity.BookingStatus(strings.ToLower(raw))
		if !status.IsValid() {
			return nil, domainerrors.ErrInvalidStatus.WithDetails(fmt.Sprintf("unknown status %q", input.Status))
		}
		filter.Status = &status
	}

	var bookings []*entity.Booking
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		bookings, err = repoFactory.BookingRepo().List(ctx, filter)

		return errors.Wrap(err, "failed to list bookings")
	})
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (srv *bookingService) Delete(ctx context.Context, bookingID uint64) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		err := repoFactory.BookingRepo().Delete(ctx, bookingID)
		if errors.Is(err, repository.ErrBookingNotFound) {
			return domainerrors.ErrBookingNotFound
		}

		return errors.Wrap(err, "failed to delete booking")
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Warn("Booking hard-deleted", slog.Uint64("bookingID", bookingID))

	return nil
}

func loadBookingForUpdate(ctx context.Context, bookingRepo repository.BookingRepository, bookingID uint64) (*entity.Booking, error) {
	booking, err := bookingRepo.FindByIDForUpdate(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, domainerrors.ErrBookingNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load booking")
	}

	return booking, nil
}

func parseSchedule(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	value := strings.TrimSpace(*raw)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()

			return &utc, nil
		}
	}

	return nil, domainerrors.ErrInvalidDate.WithDetails(fmt.Sprintf("cannot parse %q", value))
}
