package persistence

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

type postgresEducationRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresEducationRepo(db *pgxpool.Pool, logger logger.Logger) education.Repository {
	return &postgresEducationRepo{db: db, logger: logger}
}

var educationColumns = []string{
	"id", "profile_id", "institution_name", "degree", "field_of_study",
	"start_date", "end_date", "description", "created_at", "updated_at",
}

func scanEducation(row pgx.Row, identifier string) (*education.Education, error) {
	e := &education.Education{}
	err := row.Scan(
		&e.ID, &e.ProfileID, &e.InstitutionName, &e.Degree, &e.FieldOfStudy,
		&e.StartDate, &e.EndDate, &e.Description, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("education", identifier)
		}
		return nil, apperror.NewInternal("failed to scan education row", err)
	}
	return e, nil
}

func (r *postgresEducationRepo) Save(ctx context.Context, e *education.Education) error {
	sql, args, err := psql.Insert("education_history").
		Columns(educationColumns...).
		Values(e.ID, e.ProfileID, e.InstitutionName, e.Degree, e.FieldOfStudy,
			e.StartDate, e.EndDate, e.Description, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build education insert", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NewNotFound("profile", e.ProfileID.String())
		}
		return apperror.NewInternal("failed to save education", err)
	}
	return nil
}

func (r *postgresEducationRepo) Update(ctx context.Context, e *education.Education) error {
	sql, args, err := psql.Update("education_history").
		SetMap(map[string]any{
			"institution_name": e.InstitutionName,
			"degree":           e.Degree,
			"field_of_study":   e.FieldOfStudy,
			"start_date":       e.StartDate,
			"end_date":         e.EndDate,
			"description":      e.Description,
			"updated_at":       e.UpdatedAt,
		}).
		Where(sq.Eq{"id": e.ID, "profile_id": e.ProfileID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build education update", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to update education", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education", e.ID.String())
	}
	return nil
}

func (r *postgresEducationRepo) Delete(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*education.Education, error) {
	sql, args, err := psql.Delete("education_history").
		Where(sq.Eq{"id": id, "profile_id": profileID}).
		Suffix("RETURNING " + strings.Join(educationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build education delete", err)
	}
	return scanEducation(r.db.QueryRow(ctx, sql, args...), id.String())
}

func (r *postgresEducationRepo) FindByID(ctx context.Context, id uuid.UUID, profileID uuid.UUID) (*education.Education, error) {
	sql, args, err := psql.Select(educationColumns...).
		From("education_history").
		Where(sq.Eq{"id": id, "profile_id": profileID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build education query", err)
	}
	return scanEducation(r.db.QueryRow(ctx, sql, args...), id.String())
}

func (r *postgresEducationRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*education.Education, error) {
	sql, args, err := psql.Select(educationColumns...).
		From("education_history").
		Where(sq.Eq{"profile_id": profileID}).
		OrderBy("start_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list education query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query education by profile", err)
	}
	defer rows.Close()

	items := make([]*education.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows, "")
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education rows", err)
	}
	return items, nil
}
