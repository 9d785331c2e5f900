package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type postgresExperienceRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresExperienceRepo(db *pgxpool.Pool, logger logger.Logger) experience.Repository {
	return &postgresExperienceRepo{db: db, logger: logger}
}

const experienceColumns = `id, profile_id, title, company_name, location, start_date, end_date,
	description, skills_used, created_at, updated_at`

func scanExperience(row pgx.Row, identifier string) (*experience.Experience, error) {
	e := &experience.Experience{}
	err := row.Scan(
		&e.ID, &e.ProfileID, &e.Title, &e.CompanyName, &e.Location, &e.StartDate,
		&e.EndDate, &e.Description, &e.SkillsUsed, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("experience", identifier)
		}
		return nil, apperror.NewInternal("failed to scan experience row", err)
	}
	if e.SkillsUsed == nil {
		e.SkillsUsed = []string{}
	}
	return e, nil
}

func scanExperiences(rows pgx.Rows) ([]*experience.Experience, error) {
	defer rows.Close()
	items := make([]*experience.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating experience rows", err)
	}
	return items, nil
}

func (r *postgresExperienceRepo) Save(ctx context.Context, e *experience.Experience) error {
	query := `
		INSERT INTO experiences (` + experienceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.ProfileID, e.Title, e.CompanyName, e.Location, e.StartDate,
		e.EndDate, e.Description, e.SkillsUsed, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("profile", e.ProfileID.String())
		}
		return apperror.NewInternal("failed to save experience", err)
	}
	return nil
}

func (r *postgresExperienceRepo) Update(ctx context.Context, e *experience.Experience) error {
	query := `
		UPDATE experiences SET
			title = $3, company_name = $4, location = $5, start_date = $6, end_date = $7,
			description = $8, skills_used = $9, updated_at = $10
		WHERE id = $1 AND profile_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.ProfileID, e.Title, e.CompanyName, e.Location, e.StartDate,
		e.EndDate, e.Description, e.SkillsUsed, e.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to update experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("experience", e.ID.String())
	}
	return nil
}

func (r *postgresExperienceRepo) Delete(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*experience.Experience, error) {
	query := `DELETE FROM experiences WHERE id = $1 AND profile_id = $2 RETURNING ` + experienceColumns
	return scanExperience(r.db.QueryRow(ctx, query, id, profileID), id.String())
}

func (r *postgresExperienceRepo) FindByID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1 AND profile_id = $2`
	return scanExperience(r.db.QueryRow(ctx, query, id, profileID), id.String())
}

func (r *postgresExperienceRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*experience.Experience, error) {
	sql, args, err := psql.Select(experienceColumns).
		From("experiences").
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("start_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list experiences query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query experiences by profile", err)
	}
	return scanExperiences(rows)
}
