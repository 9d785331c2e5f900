package education

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/domain"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

type Education struct {
	ID              uuid.UUID  `json:"id"`
	ProfileID       uuid.UUID  `json:"profile_id"`
	InstitutionName string     `json:"institution_name"`
	Degree          string     `json:"degree"`
	FieldOfStudy    *string    `json:"field_of_study"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Patch struct {
	InstitutionName nullable.Field[string]
	Degree          nullable.Field[string]
	FieldOfStudy    nullable.Field[string]
	StartDate       nullable.Field[time.Time]
	EndDate         nullable.Field[time.Time]
	Description     nullable.Field[string]
}

func (e *Education) Normalize() {
	e.InstitutionName = strings.TrimSpace(e.InstitutionName)
	e.Degree = strings.TrimSpace(e.Degree)
	e.FieldOfStudy = domain.TrimOptional(e.FieldOfStudy)
	e.Description = domain.TrimOptional(e.Description)
	e.StartDate = dateOnly(e.StartDate)
	if e.EndDate != nil {
		d := dateOnly(*e.EndDate)
		e.EndDate = &d
	}
}

func (e *Education) Validate() error {
	errs := domain.FieldErrors{}
	if e.InstitutionName == "" {
		errs.Add("institution_name", "is required")
	}
	if e.Degree == "" {
		errs.Add("degree", "is required")
	}
	if e.StartDate.IsZero() {
		errs.Add("start_date", "is required")
	}
	if e.EndDate != nil && !e.StartDate.IsZero() && e.EndDate.Before(e.StartDate) {
		errs.Add("end_date", "must not be before start_date")
	}
	if !errs.Empty() {
		return apperror.NewValidation("education validation failed", errs)
	}
	return nil
}

func (e *Education) Apply(p Patch) error {
	errs := domain.FieldErrors{}
	if !p.InstitutionName.ApplyValue(&e.InstitutionName) {
		errs.Add("institution_name", "cannot be null")
	}
	if !p.Degree.ApplyValue(&e.Degree) {
		errs.Add("degree", "cannot be null")
	}
	if !p.StartDate.ApplyValue(&e.StartDate) {
		errs.Add("start_date", "cannot be null")
	}
	p.FieldOfStudy.ApplyTo(&e.FieldOfStudy)
	p.EndDate.ApplyTo(&e.EndDate)
	p.Description.ApplyTo(&e.Description)
	if !errs.Empty() {
		return apperror.NewValidation("education update rejected", errs)
	}

	e.Normalize()
	return e.Validate()
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Repository interface {
	Save(ctx context.Context, e *Education) error
	Update(ctx context.Context, e *Education) error
	Delete(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*Education, error)
	FindByID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*Education, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Education, error)
}
