// Package entity contains the core business objects of the marketplace.
package entity

import "time"

// User is an account that can offer skills and take part in bookings as customer or provider.
type User struct {
	ID           uint64
	Name         string
	Email        string // Unique, compared exactly as stored.
	PasswordHash string // Opaque. Never serialized to clients.
	Bio          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
