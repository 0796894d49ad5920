package repository

import (
	"context"
	"errors"

	"skillswap/internal/domain/entity"
)

// ErrSkillNotFound is returned when no skill matches the lookup.
var ErrSkillNotFound = errors.New("skill not found")


// SkillRepository persists skill offerings.
type SkillRepository interface {
	Create(ctx context.Context, skill *entity.Skill) error
	FindByID(ctx context.Context, id uint64) (*entity.Skill, error)
	List(ctx context.Context, filter entity.SkillFilter) ([]*entity.Skill, error)
}
