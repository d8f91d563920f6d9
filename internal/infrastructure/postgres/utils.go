package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
	pgOutOfRange      = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool {
	return pgErrorCode(err) == pgCheckViolation
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgFKViolation
}

// isOutOfRange verifica si un valor numérico excede el tipo de la columna (22003).
func isOutOfRange(err error) bool {
	return pgErrorCode(err) == pgOutOfRange
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// nullString convierte "" en NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// derefString convierte NULL en "".
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
