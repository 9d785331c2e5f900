package experience

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/profile-hub/adapters/persistence/memory"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

type recordingCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *recordingCache) GetByHandle(context.Context, string) (*profile.Profile, profile.Generation, bool) {
	return nil, 0, false
}

func (c *recordingCache) SetByHandle(context.Context, *profile.Profile, profile.Generation) {}

func (c *recordingCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
}

type ExperienceUseCaseTestSuite struct {
	suite.Suite
	ctx   context.Context
	cache *recordingCache
	uc    *ExperienceUseCase
	alice uuid.UUID
	bob   uuid.UUID
}

func (s *ExperienceUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.NewStore()
	s.cache = &recordingCache{}
	s.uc = NewExperienceUseCase(store.Experiences(), s.cache, logger.NewNopLogger())

	for _, email := range []string{"a@x.com", "b@x.com"} {
		u := user.New(email, "hash")
		p := profile.New(u.ID)
		s.Require().NoError(store.Users().CreateWithProfile(s.ctx, u, p))
		if email == "a@x.com" {
			s.alice = p.ID
		} else {
			s.bob = p.ID
		}
	}
}

func TestExperienceUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ExperienceUseCaseTestSuite))
}

func (s *ExperienceUseCaseTestSuite) create(profileID uuid.UUID) *experience.Experience {
	item, err := s.uc.CreateExperience(s.ctx, CreateExperienceInput{
		ProfileID:   profileID,
		Title:       " Engineer ",
		CompanyName: "Acme",
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		SkillsUsed:  []string{"Go", "Go", " SQL "},
	})
	s.Require().NoError(err)
	return item
}

func (s *ExperienceUseCaseTestSuite) TestCreate_Normalizes() {
	item := s.create(s.alice)

	s.Equal("Engineer", item.Title)
	s.Equal([]string{"Go", "SQL"}, item.SkillsUsed)
	s.Equal([]uuid.UUID{s.alice}, s.cache.invalidated)
}

func (s *ExperienceUseCaseTestSuite) TestCreate_Validation() {
	end := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.uc.CreateExperience(s.ctx, CreateExperienceInput{
		ProfileID: s.alice,
		Title:     "Engineer",
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})
	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.Empty(s.cache.invalidated)
}

func (s *ExperienceUseCaseTestSuite) TestCrossProfileAccessIsNotFound() {
	item := s.create(s.alice)

	_, err := s.uc.GetExperience(s.ctx, item.ID, s.bob)
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.uc.UpdateExperience(s.ctx, UpdateExperienceInput{
		ExperienceID: item.ID,
		ProfileID:    s.bob,
		Patch:        experience.Patch{Title: nullable.Of("Hijacked")},
	})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.uc.DeleteExperience(s.ctx, item.ID, s.bob)
	s.ErrorIs(err, apperror.ErrNotFound)

	got, err := s.uc.GetExperience(s.ctx, item.ID, s.alice)
	s.Require().NoError(err)
	s.Equal("Engineer", got.Title)
}

func (s *ExperienceUseCaseTestSuite) TestUpdate_Partial() {
	item := s.create(s.alice)

	updated, err := s.uc.UpdateExperience(s.ctx, UpdateExperienceInput{
		ExperienceID: item.ID,
		ProfileID:    s.alice,
		Patch:        experience.Patch{CompanyName: nullable.Of("Globex")},
	})
	s.Require().NoError(err)

	s.Equal("Engineer", updated.Title)
	s.Equal("Globex", updated.CompanyName)
	s.Equal([]string{"Go", "SQL"}, updated.SkillsUsed)
	s.True(!updated.UpdatedAt.Before(item.UpdatedAt))
}

func (s *ExperienceUseCaseTestSuite) TestUpdate_NullRequiredRejected() {
	item := s.create(s.alice)

	_, err := s.uc.UpdateExperience(s.ctx, UpdateExperienceInput{
		ExperienceID: item.ID,
		ProfileID:    s.alice,
		Patch:        experience.Patch{CompanyName: nullable.Null[string]()},
	})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	got, err := s.uc.GetExperience(s.ctx, item.ID, s.alice)
	s.Require().NoError(err)
	s.Equal("Acme", got.CompanyName)
}

func (s *ExperienceUseCaseTestSuite) TestDelete_ReturnsSnapshot() {
	item := s.create(s.alice)

	deleted, err := s.uc.DeleteExperience(s.ctx, item.ID, s.alice)
	s.Require().NoError(err)
	s.Equal(item.ID, deleted.ID)
	s.Equal("Engineer", deleted.Title)

	_, err = s.uc.DeleteExperience(s.ctx, item.ID, s.alice)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ExperienceUseCaseTestSuite) TestList_OnlyOwnProfile() {
	s.create(s.alice)
	s.create(s.alice)
	s.create(s.bob)

	items, err := s.uc.ListExperiences(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Len(items, 2)
	for _, it := range items {
		s.Equal(s.alice, it.ProfileID)
	}
}
