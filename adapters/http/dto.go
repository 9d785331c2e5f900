package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("dates must use the YYYY-MM-DD format")

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errInvalidDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("%w: got %q", errInvalidDate, s)
	}
	d.Time = t
	return nil
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

func toTime(d Date) time.Time {
	return d.Time
}

// Auth

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SigninRequest accepts JSON {email,password} or an OAuth2 password form
// where the email travels as "username".
type SigninRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type TokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email}
}

// Profile

type UpdateProfileRequest struct {
	Handle            nullable.Field[string] `json:"handle"`
	FullName          nullable.Field[string] `json:"full_name"`
	Bio               nullable.Field[string] `json:"bio"`
	ProfilePictureURL nullable.Field[string] `json:"profile_picture_url"`
	LinkedinURL       nullable.Field[string] `json:"linkedin_url"`
	GithubURL         nullable.Field[string] `json:"github_url"`
	WebsiteURL        nullable.Field[string] `json:"website_url"`
}

func (r UpdateProfileRequest) toPatch() profile.Patch {
	return profile.Patch{
		Handle:            r.Handle,
		FullName:          r.FullName,
		Bio:               r.Bio,
		ProfilePictureURL: r.ProfilePictureURL,
		LinkedinURL:       r.LinkedinURL,
		GithubURL:         r.GithubURL,
		WebsiteURL:        r.WebsiteURL,
	}
}

type ProfileDTO struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Handle            *string         `json:"handle"`
	FullName          *string         `json:"full_name"`
	Bio               *string         `json:"bio"`
	ProfilePictureURL *string         `json:"profile_picture_url"`
	LinkedinURL       *string         `json:"linkedin_url"`
	GithubURL         *string         `json:"github_url"`
	WebsiteURL        *string         `json:"website_url"`
	Experiences       []ExperienceDTO `json:"experiences"`
	EducationHistory  []EducationDTO  `json:"education_history"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:                p.ID,
		UserID:            p.UserID,
		Handle:            p.Handle,
		FullName:          p.FullName,
		Bio:               p.Bio,
		ProfilePictureURL: p.ProfilePictureURL,
		LinkedinURL:       p.LinkedinURL,
		GithubURL:         p.GithubURL,
		WebsiteURL:        p.WebsiteURL,
		Experiences:       make([]ExperienceDTO, 0, len(p.Experiences)),
		EducationHistory:  make([]EducationDTO, 0, len(p.EducationHistory)),
	}
	for _, e := range p.Experiences {
		dto.Experiences = append(dto.Experiences, ToExperienceDTO(e))
	}
	for _, e := range p.EducationHistory {
		dto.EducationHistory = append(dto.EducationHistory, ToEducationDTO(e))
	}
	return dto
}

// Experience

type CreateExperienceRequest struct {
	Title       string   `json:"title" binding:"required"`
	CompanyName string   `json:"company_name" binding:"required"`
	Location    *string  `json:"location"`
	StartDate   *Date    `json:"start_date" binding:"required"`
	EndDate     *Date    `json:"end_date"`
	Description *string  `json:"description"`
	SkillsUsed  []string `json:"skills_used"`
}

type UpdateExperienceRequest struct {
	Title       nullable.Field[string]   `json:"title"`
	CompanyName nullable.Field[string]   `json:"company_name"`
	Location    nullable.Field[string]   `json:"location"`
	StartDate   nullable.Field[Date]     `json:"start_date"`
	EndDate     nullable.Field[Date]     `json:"end_date"`
	Description nullable.Field[string]   `json:"description"`
	SkillsUsed  nullable.Field[[]string] `json:"skills_used"`
}

func (r UpdateExperienceRequest) toPatch() experience.Patch {
	return experience.Patch{
		Title:       r.Title,
		CompanyName: r.CompanyName,
		Location:    r.Location,
		StartDate:   nullable.Map(r.StartDate, toTime),
		EndDate:     nullable.Map(r.EndDate, toTime),
		Description: r.Description,
		SkillsUsed:  r.SkillsUsed,
	}
}

type ExperienceDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Location    *string   `json:"location"`
	StartDate   Date      `json:"start_date"`
	EndDate     *Date     `json:"end_date"`
	Description *string   `json:"description"`
	SkillsUsed  []string  `json:"skills_used"`
}

func ToExperienceDTO(e *experience.Experience) ExperienceDTO {
	skills := e.SkillsUsed
	if skills == nil {
		skills = []string{}
	}
	return ExperienceDTO{
		ID:          e.ID,
		Title:       e.Title,
		CompanyName: e.CompanyName,
		Location:    e.Location,
		StartDate:   NewDate(e.StartDate),
		EndDate:     datePtr(e.EndDate),
		Description: e.Description,
		SkillsUsed:  skills,
	}
}

// Education

type CreateEducationRequest struct {
	InstitutionName string  `json:"institution_name" binding:"required"`
	Degree          string  `json:"degree" binding:"required"`
	FieldOfStudy    *string `json:"field_of_study"`
	StartDate       *Date   `json:"start_date" binding:"required"`
	EndDate         *Date   `json:"end_date"`
	Description     *string `json:"description"`
}

type UpdateEducationRequest struct {
	InstitutionName nullable.Field[string] `json:"institution_name"`
	Degree          nullable.Field[string] `json:"degree"`
	FieldOfStudy    nullable.Field[string] `json:"field_of_study"`
	StartDate       nullable.Field[Date]   `json:"start_date"`
	EndDate         nullable.Field[Date]   `json:"end_date"`
	Description     nullable.Field[string] `json:"description"`
}

func (r UpdateEducationRequest) toPatch() education.Patch {
	return education.Patch{
		InstitutionName: r.InstitutionName,
		Degree:          r.Degree,
		FieldOfStudy:    r.FieldOfStudy,
		StartDate:       nullable.Map(r.StartDate, toTime),
		EndDate:         nullable.Map(r.EndDate, toTime),
		Description:     r.Description,
	}
}

type EducationDTO struct {
	ID              uuid.UUID `json:"id"`
	InstitutionName string    `json:"institution_name"`
	Degree          string    `json:"degree"`
	FieldOfStudy    *string   `json:"field_of_study"`
	StartDate       Date      `json:"start_date"`
	EndDate         *Date     `json:"end_date"`
	Description     *string   `json:"description"`
}

func ToEducationDTO(e *education.Education) EducationDTO {
	return EducationDTO{
		ID:              e.ID,
		InstitutionName: e.InstitutionName,
		Degree:          e.Degree,
		FieldOfStudy:    e.FieldOfStudy,
		StartDate:       NewDate(e.StartDate),
		EndDate:         datePtr(e.EndDate),
		Description:     e.Description,
	}
}

// Binding errors

var registerTagNames sync.Once

// useJSONFieldNames makes validator report JSON names ("company_name")
// instead of Go field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func bindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return apperror.NewValidation("request validation failed", fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.NewValidation("request body has a mistyped field", map[string]string{
			typeErr.Field: "must be of type " + typeErr.Type.String(),
		})
	}
	if errors.Is(err, errInvalidDate) {
		return apperror.NewValidation("request body has a malformed date", map[string]string{"body": errInvalidDate.Error()})
	}
	return apperror.NewValidation("malformed request body", map[string]string{"body": "must be a valid JSON document"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
