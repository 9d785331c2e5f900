package experience

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

// ExperienceUseCase scopes every read and write by profile id. An experience
// that exists under another profile is reported as not found.
type ExperienceUseCase struct {
	repo   experience.Repository
	cache  profile.Cache
	logger logger.Logger
}

func NewExperienceUseCase(r experience.Repository, cache profile.Cache, log logger.Logger) *ExperienceUseCase {
	return &ExperienceUseCase{repo: r, cache: cache, logger: log}
}

type CreateExperienceInput struct {
	ProfileID   uuid.UUID
	Title       string
	CompanyName string
	Location    *string
	StartDate   time.Time
	EndDate     *time.Time
	Description *string
	SkillsUsed  []string
}

func (uc *ExperienceUseCase) CreateExperience(ctx context.Context, in CreateExperienceInput) (*experience.Experience, error) {
	now := time.Now().UTC()
	item := &experience.Experience{
		ID:          uuid.New(),
		ProfileID:   in.ProfileID,
		Title:       in.Title,
		CompanyName: in.CompanyName,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
		SkillsUsed:  in.SkillsUsed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.Normalize()
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, in.ProfileID)
	return item, nil
}

type UpdateExperienceInput struct {
	ExperienceID uuid.UUID
	ProfileID    uuid.UUID
	Patch        experience.Patch
}

func (uc *ExperienceUseCase) UpdateExperience(ctx context.Context, in UpdateExperienceInput) (*experience.Experience, error) {
	item, err := uc.repo.FindByID(ctx, in.ExperienceID, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if err := item.Apply(in.Patch); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, in.ProfileID)
	return item, nil
}

func (uc *ExperienceUseCase) DeleteExperience(ctx context.Context, id, profileID uuid.UUID) (*experience.Experience, error) {
	item, err := uc.repo.Delete(ctx, id, profileID)
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, profileID)
	uc.logger.Info("Experience deleted", zap.String("experience_id", id.String()), zap.String("profile_id", profileID.String()))
	return item, nil
}

func (uc *ExperienceUseCase) GetExperience(ctx context.Context, id, profileID uuid.UUID) (*experience.Experience, error) {
	return uc.repo.FindByID(ctx, id, profileID)
}

func (uc *ExperienceUseCase) ListExperiences(ctx context.Context, profileID uuid.UUID) ([]*experience.Experience, error) {
	return uc.repo.ListByProfile(ctx, profileID)
}
