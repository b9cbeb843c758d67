package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/jlex/internal/domain"
)

// constraintErrors maps SQLSTATE integrity codes to domain errors.
var constraintErrors = map[string]error{
	"23505": domain.ErrAlreadyExists, // unique_violation
	"23503": domain.ErrNotFound,      // foreign_key_violation
	"23514": domain.ErrValidation,    // check_violation
	"23502": domain.ErrValidation,    // not_null_violation
}

// MapError converts pgx errors into domain errors, prefixed with entity and
// key ("spelling 食べる: not found"). Constraint violations also name the
// constraint. Context cancellation is wrapped but not mapped.
func MapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %v: %w", entity, key, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraintErrors[pgErr.Code]; ok {
			if pgErr.ConstraintName != "" {
				return fmt.Errorf("%s %v: %s: %w", entity, key, pgErr.ConstraintName, mapped)
			}
			return fmt.Errorf("%s %v: %w", entity, key, mapped)
		}
	}
	return fmt.Errorf("%s %v: %w", entity, key, err)
}
