package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCodeUniqueViolation  = "23505"
	pgCodeLockNotAvailable = "55P03"
	pgCodeCheckViolation   = "23514"
	pgCodeForeignKeyAbsent = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgCodeUniqueViolation
}

// isLockTimeout распознаёт срабатывание lock_timeout при FOR UPDATE.
func isLockTimeout(err error) bool {
	return pgErrorCode(err) == pgCodeLockNotAvailable
}

func isCheckViolation(err error) bool {
	return pgErrorCode(err) == pgCodeCheckViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgCodeForeignKeyAbsent
}
