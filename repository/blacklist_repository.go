// file: repository/blacklist_repository.go

package repository

import (
	"context"
	"time"

	"go-banner-api/logger"

	"github.com/redis/go-redis/v9"
)

// IBlacklistRepository defines the contract for the token revocation store.
// This abstraction decouples the AuthService from the concrete Redis
// implementation, enabling easier testing.
type IBlacklistRepository interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Exists(ctx context.Context, token string) (bool, error)
}

// BlacklistRepository stores revoked tokens in Redis, keyed by the exact
// token string. Each entry carries a TTL equal to the remaining lifetime of
// the token itself, so Redis drops the entry the moment the token would have
// expired anyway. No sweeper process is needed.
type BlacklistRepository struct {
	client *redis.Client
}

func NewBlacklistRepository(client *redis.Client) *BlacklistRepository {
	return &BlacklistRepository{client: client}
}

const blacklistKeyPrefix = "blacklist:"

// Add records a revoked token until its own expiry. Inserting the same token
// twice is a no-op (SET NX), which makes logout idempotent. An already-expired
// token still gets a short-lived entry rather than an error.
func (r *BlacklistRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Redis rejects non-positive TTLs; keep the entry around just long
		// enough to answer in-flight lookups.
		ttl = time.Second
	}

	err := r.client.SetNX(ctx, blacklistKeyPrefix+token, 1, ttl).Err()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to add token to blacklist")
		return err
	}
	return nil
}

func (r *BlacklistRepository) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to query token blacklist")
		return false, err
	}
	return n > 0, nil
}
