package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	experienceUC "github.com/khoahotran/profile-hub/internal/application/usecase/experience"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

type ExperienceHandler struct {
	useCase *experienceUC.ExperienceUseCase
}

func NewExperienceHandler(uc *experienceUC.ExperienceUseCase) *ExperienceHandler {
	return &ExperienceHandler{useCase: uc}
}

func (h *ExperienceHandler) CreateExperience(c *gin.Context) {
	profileID, ok := GetProfileIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("profile id missing from request context", nil))
		return
	}

	var req CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	item, err := h.useCase.CreateExperience(c.Request.Context(), experienceUC.CreateExperienceInput{
		ProfileID:   profileID,
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.timePtr(),
		Description: req.Description,
		SkillsUsed:  req.SkillsUsed,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToExperienceDTO(item))
}

func (h *ExperienceHandler) ListExperiences(c *gin.Context) {
	profileID, ok := GetProfileIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("profile id missing from request context", nil))
		return
	}

	items, err := h.useCase.ListExperiences(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]ExperienceDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToExperienceDTO(item))
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *ExperienceHandler) GetExperience(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	item, err := h.useCase.GetExperience(c.Request.Context(), itemID, profileID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(item))
}

func (h *ExperienceHandler) UpdateExperience(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	var req UpdateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	item, err := h.useCase.UpdateExperience(c.Request.Context(), experienceUC.UpdateExperienceInput{
		ExperienceID: itemID,
		ProfileID:    profileID,
		Patch:        req.toPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(item))
}

func (h *ExperienceHandler) DeleteExperience(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	item, err := h.useCase.DeleteExperience(c.Request.Context(), itemID, profileID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToExperienceDTO(item))
}

func ownedItemScope(c *gin.Context) (profileID, itemID uuid.UUID, ok bool) {
	profileID, ok = GetProfileIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("profile id missing from request context", nil))
		return uuid.Nil, uuid.Nil, false
	}
	itemID, ok = parseIDParam(c)
	return profileID, itemID, ok
}

// parseIDParam reads the ":id" path segment. A malformed id is a 400 rather
// than a 404.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewValidation("invalid id in path", map[string]string{"id": "must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}
