package postgres

import (
	"context"

	"skillswap/internal/errors"
	"skillswap/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the users, skills and bookings tables together with
// their cascading foreign keys and check constraints.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}
