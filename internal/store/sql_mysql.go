package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers handled by [MySQLErrorClassifier].
// See https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	mysqlErrDupEntry        = 1062
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
	mysqlErrServerShutdown  = 1053
	mysqlErrTooManyConns    = 1040
)

// MySQLErrorClassifier implements [ErrorClassificator] for go-sql-driver/mysql.
type MySQLErrorClassifier struct{}

// NewMySQLErrorClassifier constructs a [MySQLErrorClassifier].
func NewMySQLErrorClassifier() *MySQLErrorClassifier {
	return &MySQLErrorClassifier{}
}

// Classify implements [ErrorClassificator].
func (c *MySQLErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return Unclassified
	}

	if errors.Is(err, mysql.ErrInvalidConn) {
		return Transient
	}

	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return Unclassified
	}

	switch myErr.Number {
	case mysqlErrDupEntry:
		return UniqueViolation
	case mysqlErrLockDeadlock, mysqlErrLockWaitTimeout, mysqlErrServerShutdown, mysqlErrTooManyConns:
		return Transient
	default:
		return Unclassified
	}
}

// prepareMySQLDSN accepts either a bare go-sql-driver DSN or the same DSN
// prefixed with "mysql://", and forces the options the repositories rely on:
// parseTime for DATETIME scanning, UTC timestamps and found-rows affected
// counts so an UPDATE that matches a row never reports zero.
func prepareMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}

	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}

	return cfg.FormatDSN(), nil
}

func newConnectMySQL(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	prepared, err := prepareMySQLDSN(dsn)
	if err != nil {
		log.Err(err).Str("func", "newConnectMySQL").Msg("error parsing DSN")
		return nil, err
	}

	conn, err := connect(ctx, "mysql", prepared, log)
	if err != nil {
		return nil, err
	}

	return &DB{
		DB:                 conn,
		dialect:            DialectMySQL,
		logger:             log,
		errorClassificator: NewMySQLErrorClassifier(),
	}, nil
}
