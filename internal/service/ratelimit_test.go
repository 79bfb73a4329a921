package service

import (
	"context"
	"testing"
	"time"

	"campusanon/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
)

func TestRateLimiterEnforcesRules(t *testing.T) {
	mr := miniredis.RunT(t)
	if err := redis.Init(mr.Addr(), "", 0); err != nil {
		t.Fatalf("redis init: %v", err)
	}
	t.Cleanup(func() { _ = redis.Close() })

	l := NewRateLimiter()
	ctx := context.Background()

	rule := rateRules[ActionCreatePost]
	for i := 0; i < rule.Limit; i++ {
		ok, err := l.Allow(ctx, 1, ActionCreatePost)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("post %d refused inside the limit", i)
		}
	}
	if ok, _ := l.Allow(ctx, 1, ActionCreatePost); ok {
		t.Fatal("post allowed beyond the limit")
	}

	mr.FastForward(rule.Window + time.Second)
	if ok, _ := l.Allow(ctx, 1, ActionCreatePost); !ok {
		t.Fatal("post refused after the window expired")
	}
}

func TestRateLimiterUnknownActionAllowed(t *testing.T) {
	l := &RateLimiter{} // no repo needed, unknown actions never reach it
	ok, err := l.Allow(context.Background(), 1, "unknown_action")
	if err != nil || !ok {
		t.Fatalf("Allow = (%v, %v), want allowed", ok, err)
	}
}
