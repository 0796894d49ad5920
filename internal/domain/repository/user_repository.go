// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"skillswap/internal/domain/entity"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")


// UserRepository is the credential store.
type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)

	// FindByEmail matches the stored email exactly.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create inserts user and fills in ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	List(ctx context.Context) ([]*entity.User, error)
}
