package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	educationUC "github.com/khoahotran/profile-hub/internal/application/usecase/education"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

type EducationHandler struct {
	useCase *educationUC.EducationUseCase
}

func NewEducationHandler(uc *educationUC.EducationUseCase) *EducationHandler {
	return &EducationHandler{useCase: uc}
}

func (h *EducationHandler) CreateEducation(c *gin.Context) {
	profileID, ok := GetProfileIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("profile id missing from request context", nil))
		return
	}

	var req CreateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	item, err := h.useCase.CreateEducation(c.Request.Context(), educationUC.CreateEducationInput{
		ProfileID:       profileID,
		InstitutionName: req.InstitutionName,
		Degree:          req.Degree,
		FieldOfStudy:    req.FieldOfStudy,
		StartDate:       req.StartDate.Time,
		EndDate:         req.EndDate.timePtr(),
		Description:     req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToEducationDTO(item))
}

func (h *EducationHandler) ListEducation(c *gin.Context) {
	profileID, ok := GetProfileIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("profile id missing from request context", nil))
		return
	}

	items, err := h.useCase.ListEducation(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]EducationDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToEducationDTO(item))
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *EducationHandler) GetEducation(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	item, err := h.useCase.GetEducation(c.Request.Context(), itemID, profileID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationDTO(item))
}

func (h *EducationHandler) UpdateEducation(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	var req UpdateEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	item, err := h.useCase.UpdateEducation(c.Request.Context(), educationUC.UpdateEducationInput{
		EducationID: itemID,
		ProfileID:   profileID,
		Patch:       req.toPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationDTO(item))
}

func (h *EducationHandler) DeleteEducation(c *gin.Context) {
	profileID, itemID, ok := ownedItemScope(c)
	if !ok {
		return
	}

	item, err := h.useCase.DeleteEducation(c.Request.Context(), itemID, profileID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToEducationDTO(item))
}
