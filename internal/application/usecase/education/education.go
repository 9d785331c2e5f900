package education

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type EducationUseCase struct {
	repo   education.Repository
	cache  profile.Cache
	logger logger.Logger
}

func NewEducationUseCase(r education.Repository, cache profile.Cache, log logger.Logger) *EducationUseCase {
	return &EducationUseCase{repo: r, cache: cache, logger: log}
}

type CreateEducationInput struct {
	ProfileID       uuid.UUID
	InstitutionName string
	Degree          string
	FieldOfStudy    *string
	StartDate       time.Time
	EndDate         *time.Time
	Description     *string
}

func (uc *EducationUseCase) CreateEducation(ctx context.Context, in CreateEducationInput) (*education.Education, error) {
	now := time.Now().UTC()
	item := &education.Education{
		ID:              uuid.New(),
		ProfileID:       in.ProfileID,
		InstitutionName: in.InstitutionName,
		Degree:          in.Degree,
		FieldOfStudy:    in.FieldOfStudy,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Description:     in.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
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

type UpdateEducationInput struct {
	EducationID uuid.UUID
	ProfileID   uuid.UUID
	Patch       education.Patch
}

func (uc *EducationUseCase) UpdateEducation(ctx context.Context, in UpdateEducationInput) (*education.Education, error) {
	item, err := uc.repo.FindByID(ctx, in.EducationID, in.ProfileID)
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

func (uc *EducationUseCase) DeleteEducation(ctx context.Context, id, profileID uuid.UUID) (*education.Education, error) {
	item, err := uc.repo.Delete(ctx, id, profileID)
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, profileID)
	uc.logger.Info("Education entry deleted", zap.String("education_id", id.String()), zap.String("profile_id", profileID.String()))
	return item, nil
}

func (uc *EducationUseCase) GetEducation(ctx context.Context, id, profileID uuid.UUID) (*education.Education, error) {
	return uc.repo.FindByID(ctx, id, profileID)
}

func (uc *EducationUseCase) ListEducation(ctx context.Context, profileID uuid.UUID) ([]*education.Education, error) {
	return uc.repo.ListByProfile(ctx, profileID)
}
