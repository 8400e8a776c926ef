// Package migrations embeds the goose schema migrations for every supported
// SQL dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql postgres/*.sql
var embedMigrations embed.FS

// gooseDialects maps store dialect names onto goose dialects and the
// directory holding their migrations.
var gooseDialects = map[string]struct {
	dialect goose.Dialect
	dir     string
}{
	"mysql":    {dialect: goose.DialectMySQL, dir: "mysql"},
	"postgres": {dialect: goose.DialectPostgres, dir: "postgres"},
}

// Migrate applies all pending migrations of dialect ("mysql" or "postgres").
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration error: database is nil")
	}

	target, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(string(target.dialect)); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.UpContext(ctx, db, target.dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
