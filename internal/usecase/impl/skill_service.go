package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "skillswap/internal/delivery/context"
	"skillswap/internal/domain/entity"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/domain/repository"
	"skillswap/internal/errors"
	"skillswap/internal/usecase"

	"go.uber.org/fx"
)

type skillService struct {
	txManager repository.TransactionManager
	skillRepo repository.SkillRepository
	logger    *slog.Logger
}

// SkillServiceParams holds dependencies for SkillService, injected by Fx.
type SkillServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	SkillRepo repository.SkillRepository
	Logger    *slog.Logger
}

// NewSkillService is the constructor for skillService.
func NewSkillService(params SkillServiceParams) usecase.SkillUsecase {
	return &skillService{
		txManager: params.TxManager,
		skillRepo: params.SkillRepo,
		logger:    params.Logger,
	}
}

func (srv *skillService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddSkill creates a skill owned by the caller.
func (srv *skillService) AddSkill(ctx context.Context, input *usecase.AddSkillInput) (*entity.Skill, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("skill name is required")
	}

	skill := &entity.Skill{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		owner, err := repoFactory.UserRepo().FindByID(ctx, input.OwnerID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to load skill owner")
		}

		if err := repoFactory.SkillRepo().Create(ctx, skill); err != nil {
			return errors.Wrap(err, "failed to create skill")
		}
		skill.OwnerName = owner.Name

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Skill added", slog.Uint64("skillID", skill.ID), slog.Uint64("ownerID", skill.OwnerID))

	return skill, nil
}

func (srv *skillService) ListSkills(ctx context.Context, ownerID *uint64) ([]*entity.Skill, error) {
	skills, err := srv.skillRepo.List(ctx, entity.SkillFilter{OwnerID: ownerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}

	return skills, nil
}

func (srv *skillService) GetSkill(ctx context.Context, skillID uint64) (*entity.Skill, error) {
	skill, err := srv.skillRepo.FindByID(ctx, skillID)
	if errors.Is(err, repository.ErrSkillNotFound) {
		return nil, domainerrors.ErrSkillNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get skill")
	}

	return skill, nil
}
