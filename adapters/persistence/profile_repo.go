package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"id", "user_id", "handle", "full_name", "bio", "profile_picture_url",
	"linkedin_url", "github_url", "website_url", "created_at", "updated_at",
}

const insertProfileSQL = `
	INSERT INTO profiles (id, user_id, handle, full_name, bio, profile_picture_url,
		linkedin_url, github_url, website_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func profileInsertArgs(p *profile.Profile) []any {
	return []any{
		p.ID, p.UserID, p.Handle, p.FullName, p.Bio, p.ProfilePictureURL,
		p.LinkedinURL, p.GithubURL, p.WebsiteURL, p.CreatedAt, p.UpdatedAt,
	}
}

func scanProfile(row pgx.Row, identifier string) (*profile.Profile, error) {
	p := &profile.Profile{
		Experiences:      []*experience.Experience{},
		EducationHistory: []*education.Education{},
	}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Handle, &p.FullName, &p.Bio, &p.ProfilePictureURL,
		&p.LinkedinURL, &p.GithubURL, &p.WebsiteURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", identifier)
		}
		return nil, apperror.NewInternal("failed to scan profile row", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) findOne(ctx context.Context, where sq.Sqlizer, identifier string) (*profile.Profile, error) {
	sql, args, err := psql.Select(profileColumns...).From("profiles").Where(where).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build profile query", err)
	}
	return scanProfile(r.db.QueryRow(ctx, sql, args...), identifier)
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	_, err := r.db.Exec(ctx, insertProfileSQL, profileInsertArgs(p)...)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintProfileUserID):
			return apperror.NewConflict("profile", "user_id", p.UserID.String())
		case isUniqueViolation(err, constraintProfileHandle):
			return apperror.NewConflict("profile", "handle", *p.Handle)
		case isForeignKeyViolation(err):
			return apperror.NewNotFound("user", p.UserID.String())
		}
		return apperror.NewInternal("failed to insert profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	sql, args, err := psql.Update("profiles").
		SetMap(map[string]any{
			"handle":              p.Handle,
			"full_name":           p.FullName,
			"bio":                 p.Bio,
			"profile_picture_url": p.ProfilePictureURL,
			"linkedin_url":        p.LinkedinURL,
			"github_url":          p.GithubURL,
			"website_url":         p.WebsiteURL,
			"updated_at":          p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile update", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err, constraintProfileHandle) {
			return apperror.NewConflict("profile", "handle", *p.Handle)
		}
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	return nil
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return r.findOne(ctx, sq.Eq{"user_id": userID}, userID.String())
}

func (r *postgresProfileRepo) FindByHandle(ctx context.Context, handle string) (*profile.Profile, error) {
	return r.findOne(ctx, sq.Expr("lower(handle) = lower(?)", handle), handle)
}
