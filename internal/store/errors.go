package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by updates and deletes that matched no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug is returned when a write collides with the unique
	// index on published slugs.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// wrapWrite annotates a write error with op, translating unique violations
// into ErrDuplicateSlug.
func wrapWrite(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicateSlug)
	}
	return fmt.Errorf("%s: %w", op, err)
}
