package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshBlacklistPrefix = "token:refresh:blacklist"

type TokenRepository struct{}

func blacklistKey(jti string) string {
	return fmt.Sprintf("%s:%s", refreshBlacklistPrefix, jti)
}

// Blacklist marks a rotated refresh jti as spent for its remaining lifetime.
func (r *TokenRepository) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	return Client.Set(ctx, blacklistKey(jti), 1, ttl).Err()
}

func (r *TokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	err := Client.Get(ctx, blacklistKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
