package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/adapters/cache"
	httpAdapter "github.com/khoahotran/profile-hub/adapters/http"
	"github.com/khoahotran/profile-hub/adapters/media_storage"
	"github.com/khoahotran/profile-hub/adapters/persistence"
	"github.com/khoahotran/profile-hub/adapters/persistence/memory"
	"github.com/khoahotran/profile-hub/internal/application/service"
	authUC "github.com/khoahotran/profile-hub/internal/application/usecase/auth"
	educationUC "github.com/khoahotran/profile-hub/internal/application/usecase/education"
	experienceUC "github.com/khoahotran/profile-hub/internal/application/usecase/experience"
	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
	"github.com/khoahotran/profile-hub/pkg/tracing"
)

const serviceName = "profile-hub-api"

type repositories struct {
	users       user.Repository
	profiles    profile.Repository
	experiences experience.Repository
	education   education.Repository
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewZapLogger("development").Fatal("Cannot load config", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			appLogger.Error("Tracer provider shutdown failed", err)
		}
	}()

	// Storage
	var repos repositories
	switch cfg.DB.Driver {
	case config.DriverMemory:
		appLogger.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{store.Users(), store.Profiles(), store.Experiences(), store.Education()}
	default:
		if cfg.DB.AutoMigrate {
			if err := persistence.MigrateUp(cfg.DB.DSN, appLogger); err != nil {
				appLogger.Fatal("Cannot apply migrations", err)
			}
		}
		dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Postgres", err)
		}
		defer dbPool.Close()

		repos = repositories{
			users:       persistence.NewPostgresUserRepo(dbPool, appLogger),
			profiles:    persistence.NewPostgresProfileRepo(dbPool, appLogger),
			experiences: persistence.NewPostgresExperienceRepo(dbPool, appLogger),
			education:   persistence.NewPostgresEducationRepo(dbPool, appLogger),
		}
	}

	// Cache
	profileCache := cache.NewNoopProfileCache()
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Redis.ProfileTTL, appLogger)
	}

	// Media storage
	var uploader service.Uploader
	cld, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	switch {
	case errors.Is(err, media_storage.ErrNotConfigured):
		appLogger.Info("Cloudinary not configured; picture upload disabled")
	case err != nil:
		appLogger.Fatal("Cannot init uploader", err)
	default:
		uploader = cld
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan, cfg.Auth.Issuer)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Use Cases
	signupUseCase := authUC.NewSignupUseCase(repos.users, hasher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(repos.users, jwtSvc, hasher, appLogger)
	authenticateUseCase := authUC.NewAuthenticateUseCase(repos.users, jwtSvc, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(repos.profiles, repos.experiences, repos.education, profileCache, uploader, appLogger)
	experienceUseCase := experienceUC.NewExperienceUseCase(repos.experiences, profileCache, appLogger)
	educationUseCase := educationUC.NewEducationUseCase(repos.education, profileCache, appLogger)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:       httpAdapter.NewAuthHandler(signupUseCase, loginUseCase, appLogger),
		Profile:    httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Experience: httpAdapter.NewExperienceHandler(experienceUseCase),
		Education:  httpAdapter.NewEducationHandler(educationUseCase),
	}, httpAdapter.Middlewares{
		Auth:    httpAdapter.AuthMiddleware(authenticateUseCase),
		Profile: httpAdapter.ProfileMiddleware(profileUseCase),
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("db_driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shut down", err)
	}
}
