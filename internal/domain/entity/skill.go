package entity

import "time"

// Skill is an offering owned by exactly one user.
type Skill struct {
	ID          uint64
	Name        string
	Description *string
	OwnerID     uint64
	OwnerName   string // Populated on reads; ignored on writes.
	CreatedAt   time.Time
}

// SkillFilter narrows skill listings.
type SkillFilter struct {
	OwnerID *uint64
}
