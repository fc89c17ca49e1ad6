package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
// The invite-code allocation loop uses it to retry generation instead of
// surfacing a storage error when two requests race on the same code.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
