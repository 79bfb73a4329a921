package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CommunityListTTL = 15 * time.Minute
	LeaderboardTTL   = 5 * time.Minute

	// v2 keys are namespaced per user so admins and students never share an
	// entry.
	communityListPrefix = "communities:v2"
	leaderboardPrefix   = "leaderboard:daily:v1"
)

type CacheRepository struct{}

func communityListKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", communityListPrefix, userID)
}

func leaderboardKey(day string) string {
	return fmt.Sprintf("%s:%s", leaderboardPrefix, day)
}

// GetJSON unmarshals a cached value into dest; the second return is a hit
// flag. Unreadable entries count as a miss.
func (r *CacheRepository) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *CacheRepository) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Client.Set(ctx, key, raw, ttl).Err()
}

func (r *CacheRepository) CommunityListKey(userID uint64) string {
	return communityListKey(userID)
}

// LeaderboardKey is per competition day so a rollover at the 6 AM boundary
// naturally misses into a fresh computation.
func (r *CacheRepository) LeaderboardKey(day string) string {
	return leaderboardKey(day)
}

func (r *CacheRepository) InvalidateCommunityList(ctx context.Context, userID uint64) error {
	return Client.Del(ctx, communityListKey(userID)).Err()
}
