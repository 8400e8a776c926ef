package store

import (
	"context"
	"errors"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that are not
// *pgconn.PgError values are [Unclassified].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	code := postgresError(err)
	if code == "" {
		return Unclassified
	}
	return ClassifyPgErrorCode(code)
}

// ClassifyPgErrorCode maps a PostgreSQL SQLSTATE onto an [ErrorClassification].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
//
// Transient codes:
//   - Class 08: connection exceptions
//   - Class 40: transaction rollback, serialization failure, deadlock
//   - Class 57: cannot connect now
func ClassifyPgErrorCode(code string) ErrorClassification {
	switch code {
	case pgerrcode.UniqueViolation:
		return UniqueViolation

	// Class 08: connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return Transient

	// Class 40: transaction rollback
	case pgerrcode.TransactionRollback,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected:
		return Transient

	// Class 57: operator intervention
	case pgerrcode.CannotConnectNow:
		return Transient
	}

	return Unclassified
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func newConnectPostgres(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	conn, err := connect(ctx, "pgx", dsn, log)
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:                 conn,
		dialect:            DialectPostgres,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}, nil
}
