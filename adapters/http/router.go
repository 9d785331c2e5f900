package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/profile-hub/pkg/logger"
)

type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Experience *ExperienceHandler
	Education  *EducationHandler
}

type Middlewares struct {
	Auth    gin.HandlerFunc
	Profile gin.HandlerFunc
}

// NewRouter wires every route. The picture route exists only when a media
// uploader is configured.
func NewRouter(h Handlers, mw Middlewares, log logger.Logger) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	router.POST("/signup", h.Auth.Signup)
	router.POST("/signin", h.Auth.Login)

	router.GET("/profiles/handle/:handle", h.Profile.GetPublicProfile)

	me := router.Group("/profiles/me")
	me.Use(mw.Auth)
	{
		me.GET("", h.Profile.GetMyProfile)
		me.PUT("", h.Profile.UpdateMyProfile)
		if h.Profile.UploadEnabled() {
			me.PUT("/picture", h.Profile.UploadPicture)
		}

		owned := me.Group("")
		owned.Use(mw.Profile)

		experiences := owned.Group("/experiences")
		{
			experiences.POST("", h.Experience.CreateExperience)
			experiences.GET("", h.Experience.ListExperiences)
			experiences.GET("/:id", h.Experience.GetExperience)
			experiences.PUT("/:id", h.Experience.UpdateExperience)
			experiences.DELETE("/:id", h.Experience.DeleteExperience)
		}

		education := owned.Group("/education")
		{
			education.POST("", h.Education.CreateEducation)
			education.GET("", h.Education.ListEducation)
			education.GET("/:id", h.Education.GetEducation)
			education.PUT("/:id", h.Education.UpdateEducation)
			education.DELETE("/:id", h.Education.DeleteEducation)
		}
	}

	return router
}
