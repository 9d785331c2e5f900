package auth

import (
	"context"
	"errors"

	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

// AuthenticateUseCase resolves a bearer token to an existing user. A valid
// token for a user that no longer exists is rejected like any bad token.
type AuthenticateUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewAuthenticateUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *AuthenticateUseCase {
	return &AuthenticateUseCase{userRepo: repo, jwtSvc: jwtSvc, logger: log}
}

func (uc *AuthenticateUseCase) Execute(ctx context.Context, token string) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "Authenticate")
	defer span.End()

	userID, err := uc.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthenticated("token rejected", err)
	}

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewUnauthenticated("token subject no longer exists", nil)
		}
		span.RecordError(err)
		return nil, err
	}
	return u, nil
}
