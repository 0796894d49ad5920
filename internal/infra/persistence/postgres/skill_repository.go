package postgres

import (
	"context"

	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/repository"
	"skillswap/internal/errors"
	"skillswap/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository is the constructor for skillRepository.
func NewSkillRepository(db *gorm.DB) repository.SkillRepository {
	return &skillRepository{db: db}
}

// Create inserts the skill. A missing owner surfaces as ErrUserNotFound.
func (repo *skillRepository) Create(ctx context.Context, skill *entity.Skill) error {
	skillM := fromSkillDomain(skill)

	if err := repo.db.WithContext(ctx).Omit("Owner").Create(skillM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("skill owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create skill")
	}

	skill.ID = skillM.ID
	skill.CreatedAt = skillM.CreatedAt

	return nil
}

func (repo *skillRepository) FindByID(ctx context.Context, id uint64) (*entity.Skill, error) {
	var skillM model.SkillModel
	if err := repo.db.WithContext(ctx).Preload("Owner").First(&skillM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSkillNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find skill by id")
	}

	return toSkillDomain(&skillM), nil
}

// List returns skills ordered by id, optionally restricted to one owner.
func (repo *skillRepository) List(ctx context.Context, filter entity.SkillFilter) ([]*entity.Skill, error) {
	query := repo.db.WithContext(ctx).Preload("Owner").Order("id ASC")
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	var rows []model.SkillModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list skills")
	}

	skills := make([]*entity.Skill, 0, len(rows))
	for i := range rows {
		skills = append(skills, toSkillDomain(&rows[i]))
	}

	return skills, nil
}

func toSkillDomain(data *model.SkillModel) *entity.Skill {
	if data == nil {
		return nil
	}

	skill := &entity.Skill{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		OwnerID:     data.OwnerID,
		CreatedAt:   data.CreatedAt,
	}
	if data.Owner != nil {
		skill.OwnerName = data.Owner.Name
	}

	return skill
}

func fromSkillDomain(data *entity.Skill) *model.SkillModel {
	if data == nil {
		return nil
	}

	return &model.SkillModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		OwnerID:     data.OwnerID,
	}
}
