package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// PostgreSQL error codes of interest.
const (
	uniqueViolationCode = "23505"

	// Class 08 (connection exceptions) and class 57 (operator intervention,
	// e.g. shutdown) indicate the database rather than the statement failed.
	connectionExceptionClass   = "08"
	operatorInterventionClass  = "57"
	insufficientResourcesClass = "53"
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isTransient reports whether the error is a temporary store failure that the
// client layer may retry: timeouts, cancellations, connection loss, server
// shutdown, resource exhaustion.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		class := pgErr.Code[:2]
		return class == connectionExceptionClass ||
			class == operatorInterventionClass ||
			class == insufficientResourcesClass
	}

	// The stdlib driver surfaces a closed pool as a plain error string.
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "bad connection")
}

// wrapError maps a driver error onto the store taxonomy, attaching entity and
// operation context. sql.ErrNoRows is NOT handled here; callers translate it
// to the entity-specific not-found error themselves.
func wrapError(entity, operation string, err error) error {
	if isTransient(err) {
		return store.NewStoreError(entity, operation, fmt.Errorf("%w: %v", store.ErrTransient, err))
	}
	return store.NewStoreError(entity, operation, err)
}
