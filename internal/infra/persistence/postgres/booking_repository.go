package postgres

import (
	"context"

	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/repository"
	"skillswap/internal/errors"
	"skillswap/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository is the constructor for bookingRepository.
func NewBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (repo *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	bookingM := fromBookingDomain(booking)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(bookingM).Error; err != nil {
		switch {
		case isForeignKeyConstraintViolation(err):
			return domainerrors.ErrValidationFailed.WithDetails("booking references a missing user or skill")
		case isCheckConstraintViolation(err):
			return domainerrors.ErrValidationFailed.WithDetails("booking violates a status or duration constraint")
		default:
			return domainerrors.NewDatabaseExecuteError(err, "failed to create booking")
		}
	}

	booking.ID = bookingM.ID
	booking.CreatedAt = bookingM.CreatedAt
	booking.UpdatedAt = bookingM.UpdatedAt

	return nil
}

func (repo *bookingRepository) FindByID(ctx context.Context, id uint64) (*entity.Booking, error) {
	return repo.find(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate issues SELECT ... FOR UPDATE. Dialects without row locks ignore the clause.
func (repo *bookingRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*entity.Booking, error) {
	return repo.find(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (repo *bookingRepository) find(query *gorm.DB, id uint64) (*entity.Booking, error) {
	var bookingM model.BookingModel
	if err := query.First(&bookingM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find booking by id")
	}

	return toBookingDomain(&bookingM), nil
}

func (repo *bookingRepository) UpdateStatus(ctx context.Context, booking *entity.Booking, status entity.BookingStatus) error {
	now := repo.db.NowFunc()

	result := repo.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": now,
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrInvalidStatus.WrapMessage("status rejected by database")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update booking status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}

	booking.Status = status
	booking.UpdatedAt = now

	return nil
}

// List returns the participant's bookings, newest first.
func (repo *bookingRepository) List(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	query := repo.db.WithContext(ctx).Model(&model.BookingModel{})

	switch filter.Role {
	case entity.BookingRoleCustomer:
		query = query.Where("customer_id = ?", filter.ParticipantID)
	case entity.BookingRoleProvider:
		query = query.Where("provider_id = ?", filter.ParticipantID)
	default:
		query = query.Where("customer_id = ? OR provider_id = ?", filter.ParticipantID, filter.ParticipantID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var rows []model.BookingModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list bookings")
	}

	bookings := make([]*entity.Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, toBookingDomain(&rows[i]))
	}

	return bookings, nil
}

func (repo *bookingRepository) Delete(ctx context.Context, id uint64) error {
	result := repo.db.WithContext(ctx).Delete(&model.BookingModel{}, id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete booking")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}

	return nil
}

func toBookingDomain(data *model.BookingModel) *entity.Booking {
	if data == nil {
		return nil
	}

	return &entity.Booking{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		ProviderID:    data.ProviderID,
		SkillID:       data.SkillID,
		Status:        entity.BookingStatus(data.Status),
		ScheduledAt:   data.ScheduledAt,
		DurationHours: data.DurationHours,
		Notes:         data.Notes,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromBookingDomain(data *entity.Booking) *model.BookingModel {
	if data == nil {
		return nil
	}

	return &model.BookingModel{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		ProviderID:    data.ProviderID,
		SkillID:       data.SkillID,
		Status:        string(data.Status),
		ScheduledAt:   data.ScheduledAt,
		DurationHours: data.DurationHours,
		Notes:         data.Notes,
	}
}
