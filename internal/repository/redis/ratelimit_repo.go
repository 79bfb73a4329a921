package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "rl"

type RateLimitRepository struct{}

func rateLimitKey(userID uint64, action string) string {
	return fmt.Sprintf("%s:%s:%d", rateLimitPrefix, action, userID)
}

// Fixed-window counter. The first hit in a window creates the key with
// TTL=window; once the counter has reached the limit the call is refused
// without incrementing, so saturation never extends itself.
var rateLimitScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
  return 0
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

// CheckAndIncrement reports whether the action is allowed in the current
// window and consumes a slot when it is.
func (r *RateLimitRepository) CheckAndIncrement(ctx context.Context, userID uint64, action string, limit int, window time.Duration) (bool, error) {
	res, err := rateLimitScript.Run(ctx, Client,
		[]string{rateLimitKey(userID, action)},
		limit, window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
