package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/application/service"
	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const pictureFolder = "profile-pictures"

// ErrUploadDisabled is returned by ExecuteUploadPicture when no media storage
// is configured.
var ErrUploadDisabled = errors.New("profile picture upload is not configured")

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo    profile.Repository
	experienceRepo experience.Repository
	educationRepo  education.Repository
	cache          profile.Cache
	uploader       service.Uploader
	logger         logger.Logger
}

// NewProfileUseCase accepts a nil uploader; picture upload is then disabled.
func NewProfileUseCase(
	profileRepo profile.Repository,
	experienceRepo experience.Repository,
	educationRepo education.Repository,
	cache profile.Cache,
	uploader service.Uploader,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:    profileRepo,
		experienceRepo: experienceRepo,
		educationRepo:  educationRepo,
		cache:          cache,
		uploader:       uploader,
		logger:         log,
	}
}

func (uc *ProfileUseCase) UploadEnabled() bool {
	return uc.uploader != nil
}

// ExecuteGetOrCreate returns the user's profile, inserting an empty one on
// first access. Losing the insert race to a concurrent request is resolved by
// reading the winner's row.
func (uc *ProfileUseCase) ExecuteGetOrCreate(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	p = profile.New(userID)
	if err := uc.profileRepo.Create(ctx, p); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			uc.logger.Debug("Profile created concurrently, re-reading", zap.String("user_id", userID.String()))
			return uc.profileRepo.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	uc.logger.Info("Created empty profile", zap.String("user_id", userID.String()), zap.String("profile_id", p.ID.String()))
	return p, nil
}

type GetMyProfileInput struct {
	UserID uuid.UUID
}

type ProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetMyProfile(ctx context.Context, input GetMyProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetMyProfile")
	defer span.End()

	p, err := uc.ExecuteGetOrCreate(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := uc.loadCollections(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &ProfileOutput{Profile: p}, nil
}

type GetPublicProfileInput struct {
	Handle string
}

func (uc *ProfileUseCase) ExecuteGetPublicProfile(ctx context.Context, input GetPublicProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetPublicProfile")
	defer span.End()
	span.SetAttributes(attribute.String("handle", input.Handle))

	cached, gen, ok := uc.cache.GetByHandle(ctx, input.Handle)
	if ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return &ProfileOutput{Profile: cached}, nil
	}

	p, err := uc.profileRepo.FindByHandle(ctx, input.Handle)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}
	if err := uc.loadCollections(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.cache.SetByHandle(ctx, p, gen)
	return &ProfileOutput{Profile: p}, nil
}

type UpdateProfileInput struct {
	UserID uuid.UUID
	Patch  profile.Patch
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	p, err := uc.ExecuteGetOrCreate(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	previousPicture := p.ProfilePictureURL
	if err := p.Apply(input.Patch); err != nil {
		return nil, err
	}

	if p.Handle != nil {
		holder, err := uc.profileRepo.FindByHandle(ctx, *p.Handle)
		switch {
		case err == nil && holder.ID != p.ID:
			return nil, apperror.NewConflict("profile", "handle", *p.Handle)
		case err != nil && !errors.Is(err, apperror.ErrNotFound):
			span.RecordError(err)
			return nil, err
		}
	}

	p.UpdatedAt = time.Now().UTC()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			span.RecordError(err)
		}
		return nil, err
	}
	uc.cache.Invalidate(ctx, p.ID)
	uc.releasePicture(ctx, p, previousPicture)

	if err := uc.loadCollections(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &ProfileOutput{Profile: p}, nil
}

// releasePicture deletes the uploaded asset once the profile no longer points
// at it. Failures only leave an orphaned asset behind.
func (uc *ProfileUseCase) releasePicture(ctx context.Context, p *profile.Profile, previous *string) {
	if uc.uploader == nil || previous == nil {
		return
	}
	publicID := picturePublicID(p.ID)
	if !strings.Contains(*previous, publicID) {
		return
	}
	if p.ProfilePictureURL != nil && strings.Contains(*p.ProfilePictureURL, publicID) {
		return
	}
	if err := uc.uploader.Delete(ctx, publicID); err != nil {
		uc.logger.Warn("Failed to delete released profile picture", zap.String("public_id", publicID), zap.Error(err))
		return
	}
	uc.logger.Info("Deleted released profile picture", zap.String("public_id", publicID))
}

// picturePublicID is the asset id the uploader assigns to pictureFolder uploads.
func picturePublicID(profileID uuid.UUID) string {
	return pictureFolder + "/" + profileID.String()
}

type UploadPictureInput struct {
	UserID uuid.UUID
	File   io.Reader
}

func (uc *ProfileUseCase) ExecuteUploadPicture(ctx context.Context, input UploadPictureInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadPicture")
	defer span.End()

	if uc.uploader == nil {
		return nil, apperror.NewAppError(apperror.ErrNotFound, "Picture upload is not available", "no media storage configured", ErrUploadDisabled)
	}

	p, err := uc.ExecuteGetOrCreate(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	url, err := uc.uploader.Upload(ctx, input.File, pictureFolder, p.ID.String())
	if err != nil {
		uc.logger.Error("Failed to upload profile picture", err, zap.String("profile_id", p.ID.String()))
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to upload profile picture", err)
	}

	p.ProfilePictureURL = &url
	p.UpdatedAt = time.Now().UTC()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.cache.Invalidate(ctx, p.ID)

	if err := uc.loadCollections(ctx, p); err != nil {
		return nil, err
	}
	return &ProfileOutput{Profile: p}, nil
}

func (uc *ProfileUseCase) loadCollections(ctx context.Context, p *profile.Profile) error {
	exps, err := uc.experienceRepo.ListByProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	edus, err := uc.educationRepo.ListByProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Experiences = exps
	p.EducationHistory = edus
	return nil
}
