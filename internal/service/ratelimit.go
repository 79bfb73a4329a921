package service

import (
	"context"
	"time"

	"campusanon/internal/repository/redis"
)

const (
	ActionCreatePost    = "create_post"
	ActionCreateComment = "create_comment"
	ActionLike          = "like"
	ActionReport        = "report"
)

type rateRule struct {
	Limit  int
	Window time.Duration
}

var rateRules = map[string]rateRule{
	ActionCreatePost:    {Limit: 3, Window: 5 * time.Minute},
	ActionCreateComment: {Limit: 10, Window: 5 * time.Minute},
	ActionLike:          {Limit: 30, Window: time.Minute},
	ActionReport:        {Limit: 5, Window: 10 * time.Minute},
}

type RateLimiter struct {
	repo *redis.RateLimitRepository
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{repo: &redis.RateLimitRepository{}}
}

// Allow consumes a slot in the action's fixed window. Unknown actions are
// allowed: a missing rule is a wiring bug, not a reason to refuse users.
func (l *RateLimiter) Allow(ctx context.Context, userID uint64, action string) (bool, error) {
	rule, ok := rateRules[action]
	if !ok {
		return true, nil
	}
	return l.repo.CheckAndIncrement(ctx, userID, action, rule.Limit, rule.Window)
}
