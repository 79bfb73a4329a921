package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	PresenceTTL    = 5 * time.Minute
	presencePrefix = "presence:community"
)

// PresenceRepository tracks which users recently read a community's feed.
// The whole set expires together; a quiet community simply drops to zero.
type PresenceRepository struct{}

func presenceKey(communityID uint64) string {
	return fmt.Sprintf("%s:%d", presencePrefix, communityID)
}

func (r *PresenceRepository) Touch(ctx context.Context, communityID, userID uint64) error {
	key := presenceKey(communityID)
	if err := Client.SAdd(ctx, key, userID).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, key, PresenceTTL).Err()
}

func (r *PresenceRepository) Count(ctx context.Context, communityID uint64) (int64, error) {
	return Client.SCard(ctx, presenceKey(communityID)).Result()
}
