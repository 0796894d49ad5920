package usecase

import (
	"context"

	"skillswap/internal/domain/entity"
)

// AddSkillInput describes a new offering by OwnerID.
type AddSkillInput struct {
	OwnerID     uint64
	Name        string
	Description *string
}

// SkillUsecase manages the skill catalog.
type SkillUsecase interface {
	AddSkill(ctx context.Context, input *AddSkillInput) (*entity.Skill, error)

	// ListSkills returns every skill, or only ownerID's when it is set.
	ListSkills(ctx context.Context, ownerID *uint64) ([]*entity.Skill, error)

	GetSkill(ctx context.Context, skillID uint64) (*entity.Skill, error)
}
