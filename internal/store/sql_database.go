package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/migrations"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Dialect identifies the SQL database behind a [DB].
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// DialectFromDSN picks the dialect from the DSN form. URLs with a postgres
// scheme open PostgreSQL; "mysql://" URLs and bare go-sql-driver DSNs open
// MySQL.
func DialectFromDSN(dsn string) (Dialect, error) {
	switch {
	case dsn == "":
		return "", fmt.Errorf("%w: empty DSN", ErrUnknownDialect)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return DialectMySQL, nil
	case strings.Contains(dsn, "://"):
		return "", fmt.Errorf("%w: unsupported scheme in DSN", ErrUnknownDialect)
	default:
		return DialectMySQL, nil
	}
}

// DB wraps a sqlx connection pool together with the dialect specific query
// builder and error classifier.
type DB struct {
	*sqlx.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectDB opens and pings the database described by cfg.DSN and applies
// the pool limits.
func NewConnectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	dialect, err := DialectFromDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	var db *DB
	switch dialect {
	case DialectPostgres:
		db, err = newConnectPostgres(ctx, cfg.DSN, log)
	default:
		db, err = newConnectMySQL(ctx, cfg.DSN, log)
	}
	if err != nil {
		return nil, err
	}

	// setup connections
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info().Str("func", "NewConnectDB").Str("dialect", string(dialect)).Msg("connected to database successfully")
	return db, nil
}

func connect(ctx context.Context, driverName, dsn string, log *logger.Logger) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		log.Err(err).Str("func", "store.connect").Str("driver", driverName).Msg("error occurred during database connection")
		return nil, fmt.Errorf("error occurred during database connection: %w", err)
	}
	return conn, nil
}

// Dialect returns the dialect of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// builder returns a squirrel statement builder with the placeholder format of
// the dialect.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// classify never returns a nil classification; a DB without a classifier
// treats every error as [Unclassified].
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil || err == nil {
		return Unclassified
	}
	return db.errorClassificator.Classify(err)
}

// Migrate applies all pending schema migrations for the dialect.
func (db *DB) Migrate(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return errors.New("migrate: database is not connected")
	}
	return migrations.Migrate(ctx, db.DB.DB, string(db.dialect))
}

// ErrorClassification groups driver errors the repositories react to.
type ErrorClassification int

const (
	// Unclassified covers every error without special handling.
	Unclassified ErrorClassification = iota

	// UniqueViolation is a duplicate key on a unique index.
	UniqueViolation

	// Transient errors (lost connection, deadlock, serialization failure) may
	// succeed if the client repeats the request.
	Transient
)

// String implements [fmt.Stringer].
func (c ErrorClassification) String() string {
	switch c {
	case UniqueViolation:
		return "unique_violation"
	case Transient:
		return "transient"
	default:
		return "unclassified"
	}
}
