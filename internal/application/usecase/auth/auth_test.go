package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/khoahotran/profile-hub/adapters/persistence/memory"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/auth"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type AuthUseCaseTestSuite struct {
	suite.Suite
	ctx          context.Context
	store        *memory.Store
	jwtSvc       *auth.JWTService
	signup       *SignupUseCase
	login        *LoginUseCase
	authenticate *AuthenticateUseCase
}

func (s *AuthUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	log := logger.NewNopLogger()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	s.jwtSvc = auth.NewJWTService("usecase-test-secret-0123456789", time.Minute, "profile-hub")

	s.signup = NewSignupUseCase(s.store.Users(), hasher, log)
	s.login = NewLoginUseCase(s.store.Users(), s.jwtSvc, hasher, log)
	s.authenticate = NewAuthenticateUseCase(s.store.Users(), s.jwtSvc, log)
}

func TestAuthUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}

func (s *AuthUseCaseTestSuite) TestSignup_CreatesUserAndEmptyProfile() {
	out, err := s.signup.Execute(s.ctx, SignupInput{Email: "  Alice@Example.com ", Password: "pw-123456"})
	s.Require().NoError(err)

	s.Equal("alice@example.com", out.User.Email)
	s.NotEqual("pw-123456", out.User.PasswordHash)

	p, err := s.store.Profiles().FindByUserID(s.ctx, out.User.ID)
	s.Require().NoError(err)
	s.Nil(p.Handle)
}

func (s *AuthUseCaseTestSuite) TestSignup_DuplicateEmailConflicts() {
	_, err := s.signup.Execute(s.ctx, SignupInput{Email: "a@x.com", Password: "pw"})
	s.Require().NoError(err)

	_, err = s.signup.Execute(s.ctx, SignupInput{Email: "A@X.com", Password: "other"})
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *AuthUseCaseTestSuite) TestSignup_Validation() {
	cases := []SignupInput{
		{Email: "not-an-email", Password: "pw"},
		{Email: "", Password: "pw"},
		{Email: "a@x.com", Password: ""},
		{Email: "a@x.com", Password: strings.Repeat("p", auth.MaxPasswordBytes+1)},
	}
	for _, in := range cases {
		_, err := s.signup.Execute(s.ctx, in)
		s.ErrorIs(err, apperror.ErrInvalidInput, "input %+v", in)
	}
}

func (s *AuthUseCaseTestSuite) TestLogin() {
	_, err := s.signup.Execute(s.ctx, SignupInput{Email: "a@x.com", Password: "correct"})
	s.Require().NoError(err)

	out, err := s.login.Execute(s.ctx, LoginInput{Email: "A@x.com", Password: "correct"})
	s.Require().NoError(err)
	s.Equal(TokenTypeBearer, out.TokenType)

	_, err = s.jwtSvc.ValidateToken(out.AccessToken)
	s.NoError(err)
}

func (s *AuthUseCaseTestSuite) TestLogin_FailuresAreIndistinguishable() {
	_, err := s.signup.Execute(s.ctx, SignupInput{Email: "a@x.com", Password: "correct"})
	s.Require().NoError(err)

	_, wrongPassword := s.login.Execute(s.ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := s.login.Execute(s.ctx, LoginInput{Email: "nobody@x.com", Password: "correct"})

	s.ErrorIs(wrongPassword, apperror.ErrUnauthorized)
	s.ErrorIs(unknownEmail, apperror.ErrUnauthorized)

	var a, b *apperror.AppError
	s.Require().ErrorAs(wrongPassword, &a)
	s.Require().ErrorAs(unknownEmail, &b)
	s.Equal(a.ToJSON(), b.ToJSON())
}

func (s *AuthUseCaseTestSuite) TestAuthenticate() {
	out, err := s.signup.Execute(s.ctx, SignupInput{Email: "a@x.com", Password: "pw"})
	s.Require().NoError(err)
	token, err := s.jwtSvc.GenerateToken(out.User.ID)
	s.Require().NoError(err)

	u, err := s.authenticate.Execute(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(out.User.ID, u.ID)
}

func (s *AuthUseCaseTestSuite) TestAuthenticate_RejectsBadTokens() {
	_, err := s.authenticate.Execute(s.ctx, "garbage")
	s.ErrorIs(err, apperror.ErrUnauthorized)

	orphan, err := s.jwtSvc.GenerateToken(uuid.New())
	s.Require().NoError(err)
	_, err = s.authenticate.Execute(s.ctx, orphan)
	s.ErrorIs(err, apperror.ErrUnauthorized)
}

func (s *AuthUseCaseTestSuite) TestAuthenticate_DeletedUser() {
	out, err := s.signup.Execute(s.ctx, SignupInput{Email: "a@x.com", Password: "pw"})
	s.Require().NoError(err)
	token, err := s.jwtSvc.GenerateToken(out.User.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteUser(s.ctx, out.User.ID))

	_, err = s.authenticate.Execute(s.ctx, token)
	s.ErrorIs(err, apperror.ErrUnauthorized)
}
