// Command seed creates a demo account from SEED_EMAIL, SEED_PASSWORD and an
// optional SEED_HANDLE. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/adapters/cache"
	"github.com/khoahotran/profile-hub/adapters/persistence"
	authUC "github.com/khoahotran/profile-hub/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/profile-hub/internal/application/usecase/profile"
	"github.com/khoahotran/profile-hub/internal/config"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewZapLogger("development").Fatal("Cannot load config", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	handle := os.Getenv("SEED_HANDLE")
	if email == "" || password == "" {
		appLogger.Fatal("SEED_EMAIL and SEED_PASSWORD are required", nil)
	}

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer pool.Close()

	users := persistence.NewPostgresUserRepo(pool, appLogger)
	profiles := profileUC.NewProfileUseCase(
		persistence.NewPostgresProfileRepo(pool, appLogger),
		persistence.NewPostgresExperienceRepo(pool, appLogger),
		persistence.NewPostgresEducationRepo(pool, appLogger),
		cache.NewNoopProfileCache(),
		nil,
		appLogger,
	)
	signup := authUC.NewSignupUseCase(users, auth.NewPasswordHasher(cfg.Auth.BcryptCost), appLogger)

	out, err := signup.Execute(ctx, authUC.SignupInput{Email: email, Password: password})
	switch {
	case errors.Is(err, apperror.ErrConflict):
		appLogger.Info("Seed user already exists", zap.String("email", email))
		existing, findErr := users.FindByEmail(ctx, user.NormalizeEmail(email))
		if findErr != nil {
			appLogger.Fatal("Cannot load existing seed user", findErr)
		}
		out = &authUC.SignupOutput{User: existing}
	case err != nil:
		appLogger.Fatal("Cannot create seed user", err)
	}

	if handle != "" {
		_, err = profiles.ExecuteUpdateProfile(ctx, profileUC.UpdateProfileInput{
			UserID: out.User.ID,
			Patch:  profile.Patch{Handle: nullable.Of(handle)},
		})
		if err != nil {
			appLogger.Fatal("Cannot set seed handle", err)
		}
	}

	appLogger.Info("Seed account ready", zap.String("email", out.User.Email), zap.String("handle", handle))
}

