package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const maxPictureBytes = 5 << 20

type ProfileHandler struct {
	useCase *profileUC.ProfileUseCase
	logger  logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{useCase: uc, logger: log}
}

func (h *ProfileHandler) UploadEnabled() bool {
	return h.useCase.UploadEnabled()
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("user id missing from request context", nil))
		return
	}

	output, err := h.useCase.ExecuteGetMyProfile(c.Request.Context(), profileUC.GetMyProfileInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("user id missing from request context", nil))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	output, err := h.useCase.ExecuteUpdateProfile(c.Request.Context(), profileUC.UpdateProfileInput{
		UserID: userID,
		Patch:  req.toPatch(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	output, err := h.useCase.ExecuteGetPublicProfile(c.Request.Context(), profileUC.GetPublicProfileInput{
		Handle: c.Param("handle"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated("user id missing from request context", nil))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewValidation("multipart field missing", map[string]string{"file": "is required"}))
		return
	}
	if header.Size > maxPictureBytes {
		c.Error(apperror.NewValidation("picture too large", map[string]string{"file": "must be at most 5 MiB"}))
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		c.Error(apperror.NewValidation("picture is not an image", map[string]string{"file": "must be an image"}))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded picture", err, zap.String("filename", header.Filename))
		c.Error(apperror.NewInternal("failed to read uploaded file", err))
		return
	}
	defer file.Close()

	output, err := h.useCase.ExecuteUploadPicture(c.Request.Context(), profileUC.UploadPictureInput{
		UserID: userID,
		File:   file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}
