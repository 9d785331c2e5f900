package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-hub/internal/application/usecase/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type AuthHandler struct {
	signupUseCase *auth.SignupUseCase
	loginUseCase  *auth.LoginUseCase
	logger        logger.Logger
}

func NewAuthHandler(signupUC *auth.SignupUseCase, loginUC *auth.LoginUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		signupUseCase: signupUC,
		loginUseCase:  loginUC,
		logger:        log,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), auth.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToUserDTO(output.User))
}

// Login binds by Content-Type, so both JSON and form-encoded sign-ins work.
func (h *AuthHandler) Login(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, TokenDTO{
		AccessToken: output.AccessToken,
		TokenType:   output.TokenType,
	})
}
