package profile

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/domain"
	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{2,29}$`)

type Profile struct {
	ID                uuid.UUID                `json:"id"`
	UserID            uuid.UUID                `json:"user_id"`
	Handle            *string                  `json:"handle"`
	FullName          *string                  `json:"full_name"`
	Bio               *string                  `json:"bio"`
	ProfilePictureURL *string                  `json:"profile_picture_url"`
	LinkedinURL       *string                  `json:"linkedin_url"`
	GithubURL         *string                  `json:"github_url"`
	WebsiteURL        *string                  `json:"website_url"`
	Experiences       []*experience.Experience `json:"experiences"`
	EducationHistory  []*education.Education   `json:"education_history"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func New(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		ID:               uuid.New(),
		UserID:           userID,
		Experiences:      []*experience.Experience{},
		EducationHistory: []*education.Education{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// HandleKey is the case-folded form used for uniqueness and lookup.
func HandleKey(handle string) string {
	return strings.ToLower(handle)
}

// Patch is a partial update of the scalar profile fields.
type Patch struct {
	Handle            nullable.Field[string]
	FullName          nullable.Field[string]
	Bio               nullable.Field[string]
	ProfilePictureURL nullable.Field[string]
	LinkedinURL       nullable.Field[string]
	GithubURL         nullable.Field[string]
	WebsiteURL        nullable.Field[string]
}

// Apply merges p into the profile and validates the result. Blank strings
// clear a field the same way null does.
func (p *Profile) Apply(patch Patch) error {
	patch.Handle.ApplyTo(&p.Handle)
	patch.FullName.ApplyTo(&p.FullName)
	patch.Bio.ApplyTo(&p.Bio)
	patch.ProfilePictureURL.ApplyTo(&p.ProfilePictureURL)
	patch.LinkedinURL.ApplyTo(&p.LinkedinURL)
	patch.GithubURL.ApplyTo(&p.GithubURL)
	patch.WebsiteURL.ApplyTo(&p.WebsiteURL)

	p.Handle = domain.TrimOptional(p.Handle)
	p.FullName = domain.TrimOptional(p.FullName)
	p.Bio = domain.TrimOptional(p.Bio)
	p.ProfilePictureURL = domain.TrimOptional(p.ProfilePictureURL)
	p.LinkedinURL = domain.TrimOptional(p.LinkedinURL)
	p.GithubURL = domain.TrimOptional(p.GithubURL)
	p.WebsiteURL = domain.TrimOptional(p.WebsiteURL)

	p.ProfilePictureURL = domain.NormalizeURL(p.ProfilePictureURL)
	p.LinkedinURL = domain.NormalizeURL(p.LinkedinURL)
	p.GithubURL = domain.NormalizeURL(p.GithubURL)
	p.WebsiteURL = domain.NormalizeURL(p.WebsiteURL)

	return p.Validate()
}

func (p *Profile) Validate() error {
	errs := domain.FieldErrors{}
	if p.Handle != nil && !handlePattern.MatchString(*p.Handle) {
		errs.Add("handle", "must be 3-30 characters of letters, digits, '.', '_' or '-' and start with a letter or digit")
	}
	urls := []struct {
		name  string
		value *string
	}{
		{"profile_picture_url", p.ProfilePictureURL},
		{"linkedin_url", p.LinkedinURL},
		{"github_url", p.GithubURL},
		{"website_url", p.WebsiteURL},
	}
	for _, u := range urls {
		if u.value != nil && !domain.IsHTTPURL(*u.value) {
			errs.Add(u.name, "must be an absolute http or https URL")
		}
	}
	if !errs.Empty() {
		return apperror.NewValidation("profile validation failed", errs)
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	// Update persists the scalar fields. Collections are not touched.
	Update(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// FindByHandle matches case-insensitively.
	FindByHandle(ctx context.Context, handle string) (*Profile, error)
}

// Generation identifies the cache state a miss was observed in.
type Generation int64

// Cache holds the public, fully populated view of profiles keyed by handle.
// Implementations swallow backend failures: a cache miss is always safe.
type Cache interface {
	// GetByHandle also returns the current generation, which a caller filling
	// the cache after a miss must hand back to SetByHandle.
	GetByHandle(ctx context.Context, handle string) (*Profile, Generation, bool)
	// SetByHandle is a no-op if Invalidate ran after gen was observed.
	SetByHandle(ctx context.Context, p *Profile, gen Generation)
	Invalidate(ctx context.Context, profileID uuid.UUID)
}
