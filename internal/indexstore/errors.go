package indexstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Sentinel errors mirroring internal/storage/sqlite/errors.go's taxonomy,
// generalized from database/sql to pgx.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint violation.
	ErrConflict = errors.New("conflict")
)

// wrapDBError wraps a pgx error with operation context, converting
// pgx.ErrNoRows to ErrNotFound for consistent error handling the way
// wrapDBError converts sql.ErrNoRows in the sqlite storage layer.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
