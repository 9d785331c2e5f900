package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const TokenTypeBearer = "bearer"

type LoginUseCase struct {
	userRepo  user.Repository
	jwtSvc    *auth.JWTService
	hasher    *auth.PasswordHasher
	logger    logger.Logger
	dummyHash string
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, hasher *auth.PasswordHasher, log logger.Logger) *LoginUseCase {
	// Compared against when the email is unknown, so both failure paths pay
	// for one bcrypt comparison.
	dummyHash, err := hasher.HashPassword("profile-hub-timing-equalizer")
	if err != nil {
		log.Warn("Cannot precompute dummy password hash", zap.Error(err))
	}
	return &LoginUseCase{
		userRepo:  repo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		logger:    log,
		dummyHash: dummyHash,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
	TokenType   string
}

var tracer = otel.Tracer("auth_usecase")

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, user.NormalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			span.RecordError(err)
			return nil, err
		}
		uc.hasher.CheckPasswordHash(input.Password, uc.dummyHash)
		err := apperror.NewUnauthorized("unknown email", nil)
		span.RecordError(err)
		return nil, err
	}

	if !uc.hasher.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized("incorrect password", nil)
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
