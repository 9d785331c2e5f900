package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authUC "github.com/khoahotran/profile-hub/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const (
	GinContextKeyUserID    = "userID"
	GinContextKeyProfileID = "profileID"
)

// AuthMiddleware accepts only "Authorization: Bearer <token>" for a user that
// still exists.
func AuthMiddleware(authenticate *authUC.AuthenticateUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperror.NewUnauthenticated("authorization header is missing", nil))
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			abortWithError(c, apperror.NewUnauthenticated("authorization header is not a bearer token", nil))
			return
		}

		u, err := authenticate.Execute(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(GinContextKeyUserID, u.ID)
		c.Next()
	}
}

// ProfileMiddleware resolves (creating on first access) the caller's profile.
// It must run after AuthMiddleware.
func ProfileMiddleware(profiles *profileUC.ProfileUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserIDFromGinContext(c)
		if !ok {
			abortWithError(c, apperror.NewUnauthenticated("user id missing from request context", nil))
			return
		}

		p, err := profiles.ExecuteGetOrCreate(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(GinContextKeyProfileID, p.ID)
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromGinContext(c, GinContextKeyUserID)
}

func GetProfileIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	return uuidFromGinContext(c, GinContextKeyProfileID)
}

func uuidFromGinContext(c *gin.Context, key string) (uuid.UUID, bool) {
	v, ok := c.Get(key)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortWithError(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// ErrorMiddleware turns the last error pushed with c.Error into the JSON
// response. It is the only place that maps errors to status codes.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", appErr, fields...)
		} else {
			log.Debug("Request rejected", append(fields, zap.String("reason", appErr.Details))...)
		}

		if c.Writer.Written() {
			return
		}
		if status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.JSON(status, appErr.ToJSON())
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
