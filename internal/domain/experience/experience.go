package experience

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/domain"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	ProfileID   uuid.UUID  `json:"profile_id"`
	Title       string     `json:"title"`
	CompanyName string     `json:"company_name"`
	Location    *string    `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description *string    `json:"description"`
	SkillsUsed  []string   `json:"skills_used"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Patch is a partial update. Unset fields are left untouched.
type Patch struct {
	Title       nullable.Field[string]
	CompanyName nullable.Field[string]
	Location    nullable.Field[string]
	StartDate   nullable.Field[time.Time]
	EndDate     nullable.Field[time.Time]
	Description nullable.Field[string]
	SkillsUsed  nullable.Field[[]string]
}

// Normalize trims text fields, truncates dates to the day and cleans up
// SkillsUsed.
func (e *Experience) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.CompanyName = strings.TrimSpace(e.CompanyName)
	e.Location = domain.TrimOptional(e.Location)
	e.Description = domain.TrimOptional(e.Description)
	e.SkillsUsed = domain.NormalizeSkills(e.SkillsUsed)
	e.StartDate = truncateDay(e.StartDate)
	if e.EndDate != nil {
		d := truncateDay(*e.EndDate)
		e.EndDate = &d
	}
}

func (e *Experience) Validate() error {
	errs := domain.FieldErrors{}
	if e.Title == "" {
		errs.Add("title", "is required")
	}
	if e.CompanyName == "" {
		errs.Add("company_name", "is required")
	}
	if e.StartDate.IsZero() {
		errs.Add("start_date", "is required")
	}
	if e.EndDate != nil && !e.StartDate.IsZero() && e.EndDate.Before(e.StartDate) {
		errs.Add("end_date", "must not be before start_date")
	}
	if !errs.Empty() {
		return apperror.NewValidation("experience validation failed", errs)
	}
	return nil
}

// Apply merges p into e, then normalizes and validates the result. Nulling a
// required field is a validation error.
func (e *Experience) Apply(p Patch) error {
	errs := domain.FieldErrors{}
	if !p.Title.ApplyValue(&e.Title) {
		errs.Add("title", "cannot be null")
	}
	if !p.CompanyName.ApplyValue(&e.CompanyName) {
		errs.Add("company_name", "cannot be null")
	}
	if !p.StartDate.ApplyValue(&e.StartDate) {
		errs.Add("start_date", "cannot be null")
	}
	p.Location.ApplyTo(&e.Location)
	p.EndDate.ApplyTo(&e.EndDate)
	p.Description.ApplyTo(&e.Description)
	if p.SkillsUsed.Set {
		e.SkillsUsed = nil
		if p.SkillsUsed.Value != nil {
			e.SkillsUsed = *p.SkillsUsed.Value
		}
	}
	if !errs.Empty() {
		return apperror.NewValidation("experience update rejected", errs)
	}

	e.Normalize()
	return e.Validate()
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Repository interface {
	Save(ctx context.Context, e *Experience) error
	Update(ctx context.Context, e *Experience) error
	// Delete removes the row and returns it as it was before deletion.
	Delete(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*Experience, error)
	FindByID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*Experience, error)
	// ListByProfile orders by start_date then created_at, newest first.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Experience, error)
}
