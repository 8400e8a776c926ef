package store

import (
	"context"
	"errors"
	"io"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
)

// Storages bundles the repositories used by the service layer.
// TokenDenylist is nil when no Redis address is configured.
type Storages struct {
	UserRepository UserRepository
	TokenDenylist  TokenDenylist

	db      *DB
	closers []io.Closer
}

// NewStorages connects the relational database and, when configured, Redis.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	storages := &Storages{
		UserRepository: NewUserRepository(db, log),
		db:             db,
		closers:        []io.Closer{db},
	}

	if cfg.Redis.Address == "" {
		log.Warn().Str("func", "NewStorages").Msg("redis is not configured: logout will not revoke tokens server-side")
		return storages, nil
	}

	client, err := NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}
	storages.TokenDenylist = NewRedisTokenDenylist(client, log)
	storages.closers = append(storages.closers, client)

	return storages, nil
}

// Migrate applies pending schema migrations to the relational database.
func (s *Storages) Migrate(ctx context.Context) error {
	return s.db.Migrate(ctx)
}

// Close releases every connection held by s.
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
