package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"skillswap/internal/delivery/api/middleware"
	"skillswap/internal/delivery/api/response"
	domainerrors "skillswap/internal/domain/errors"
	"skillswap/internal/errors"
	"skillswap/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SkillHandlerParams holds dependencies for SkillHandler, injected by Fx.
type SkillHandlerParams struct {
	fx.In

	SkillUC usecase.SkillUsecase
	Logger  *slog.Logger
}

// SkillHandler serves the skill catalog.
type SkillHandler struct {
	skillUC usecase.SkillUsecase
	logger  *slog.Logger
}

// NewSkillHandler is the constructor for SkillHandler.
func NewSkillHandler(params SkillHandlerParams) *SkillHandler {
	return &SkillHandler{
		skillUC: params.SkillUC,
		logger:  params.Logger,
	}
}

// AddSkillRequest is the body of POST /api/v1/skills.
type AddSkillRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

// AddSkill handles POST /api/v1/skills. The caller becomes the owner.
func (h *SkillHandler) AddSkill(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrUnauthorized
	}

	var req AddSkillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	skill, err := h.skillUC.AddSkill(c.Request().Context(), &usecase.AddSkillInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toSkillResponse(skill))
}

// ListSkills handles GET /api/v1/skills?user_id=.
func (h *SkillHandler) ListSkills(c echo.Context) error {
	var ownerID *uint64
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return domainerrors.ErrValidationFailed.WithDetails("user_id must be a positive integer")
		}
		ownerID = &id
	}

	skills, err := h.skillUC.ListSkills(c.Request().Context(), ownerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mapSlice(skills, toSkillResponse))
}

// GetSkill handles GET /api/v1/skills/:id.
func (h *SkillHandler) GetSkill(c echo.Context) error {
	skillID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	skill, err := h.skillUC.GetSkill(c.Request().Context(), skillID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toSkillResponse(skill))
}
