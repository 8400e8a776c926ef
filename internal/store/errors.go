package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a create or update would give
	// two rows the same email. Deactivated rows keep their email reserved.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when no row (or no active row, depending on
	// the method) matches the lookup.
	ErrUserNotFound = errors.New("no user was found")

	// ErrUnknownDialect is returned when a DSN cannot be mapped to a
	// supported database.
	ErrUnknownDialect = errors.New("unknown database dialect")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a result row into a struct fails.
	ErrScanningRow = errors.New("failed to scan user row")

	// ErrDenylistUnavailable is returned when the token denylist cannot be
	// reached.
	ErrDenylistUnavailable = errors.New("token denylist unavailable")
)
