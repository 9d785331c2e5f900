package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	constraintUserEmail     = "users_email_key"
	constraintProfileUserID = "profiles_user_id_key"
	constraintProfileHandle = "profiles_handle_lower_key"
)

// pgViolation reports the SQLSTATE and constraint name of a Postgres error.
func pgViolation(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

func isUniqueViolation(err error, constraint string) bool {
	code, name, ok := pgViolation(err)
	return ok && code == pgUniqueViolation && (constraint == "" || name == constraint)
}

func isForeignKeyViolation(err error) bool {
	code, _, ok := pgViolation(err)
	return ok && code == pgForeignKeyViolation
}
