package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type SignupUseCase struct {
	userRepo user.Repository
	hasher   *auth.PasswordHasher
	logger   logger.Logger
}

func NewSignupUseCase(repo user.Repository, hasher *auth.PasswordHasher, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{userRepo: repo, hasher: hasher, logger: log}
}

type SignupInput struct {
	Email    string
	Password string
}

type SignupOutput struct {
	User *user.User
}

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	email := user.NormalizeEmail(input.Email)
	if !domain.IsEmail(email) {
		return nil, apperror.NewValidation("invalid signup email", map[string]string{"email": "must be a valid email address"})
	}
	if input.Password == "" {
		return nil, apperror.NewValidation("missing password", map[string]string{"password": "is required"})
	}

	hash, err := uc.hasher.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.NewValidation("password too long", map[string]string{"password": "must be at most 72 bytes"})
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := user.New(email, hash)
	if err := uc.userRepo.CreateWithProfile(ctx, u, profile.New(u.ID)); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	uc.logger.Info("User signed up", zap.String("user_id", u.ID.String()))
	return &SignupOutput{User: u}, nil
}
