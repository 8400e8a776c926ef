package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	denylistKeyPrefix       = "carecoord:revoked:"
	userRevocationKeyPrefix = "carecoord:revoked-user:"
)

// redisTokenDenylist stores revoked token ids as Redis keys that expire
// together with the token they revoke.
type redisTokenDenylist struct {
	client redis.Cmdable
	logger *logger.Logger
}

// NewRedisTokenDenylist constructs a [TokenDenylist] on top of client.
func NewRedisTokenDenylist(client redis.Cmdable, log *logger.Logger) TokenDenylist {
	log.Debug().Msg("creating redis token denylist")
	return &redisTokenDenylist{
		client: client,
		logger: log,
	}
}

// NewRedisClient connects to Redis and pings it with a short timeout.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Err(err).Str("func", "NewRedisClient").Str("address", cfg.Address).Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	log.Info().Str("func", "NewRedisClient").Str("address", cfg.Address).Msg("connected to redis successfully")
	return client, nil
}

func denylistKey(tokenID string) string {
	return denylistKeyPrefix + tokenID
}

func userRevocationKey(userID int64) string {
	return userRevocationKeyPrefix + strconv.FormatInt(userID, 10)
}

// Revoke implements [TokenDenylist]. A non-positive ttl means the token has
// already expired, so nothing is stored.
func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, denylistKey(tokenID), 1, ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisTokenDenylist.Revoke").Msg("error revoking token")
		return fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	return nil
}

// IsRevoked implements [TokenDenylist].
func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(tokenID)).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisTokenDenylist.IsRevoked").Msg("error checking token")
		return false, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	return n > 0, nil
}

// RevokeUserTokens implements [TokenDenylist]. The cutoff is stored with
// second precision, the precision of the "iat" claim.
func (d *redisTokenDenylist) RevokeUserTokens(ctx context.Context, userID int64, cutoff time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := d.client.Set(ctx, userRevocationKey(userID), cutoff.Unix(), ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisTokenDenylist.RevokeUserTokens").Int64("user_id", userID).Msg("error revoking user tokens")
		return fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	return nil
}

// UserTokensRevokedAt implements [TokenDenylist].
func (d *redisTokenDenylist) UserTokensRevokedAt(ctx context.Context, userID int64) (time.Time, bool, error) {
	unix, err := d.client.Get(ctx, userRevocationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisTokenDenylist.UserTokensRevokedAt").Int64("user_id", userID).Msg("error checking user revocation")
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	return time.Unix(unix, 0), true, nil
}
