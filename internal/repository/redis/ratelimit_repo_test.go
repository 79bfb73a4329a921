package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitWindow(t *testing.T) {
	mr := newTestRedis(t)
	repo := &RateLimitRepository{}
	ctx := context.Background()

	const limit = 3
	window := 5 * time.Minute

	for i := 0; i < limit; i++ {
		ok, err := repo.CheckAndIncrement(ctx, 1, "create_post", limit, window)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("call %d refused inside the limit", i)
		}
	}

	ok, err := repo.CheckAndIncrement(ctx, 1, "create_post", limit, window)
	if err != nil {
		t.Fatalf("saturated call: %v", err)
	}
	if ok {
		t.Fatal("call allowed beyond the limit")
	}

	// Rejection must not extend the window.
	mr.FastForward(window - time.Second)
	if ok, _ := repo.CheckAndIncrement(ctx, 1, "create_post", limit, window); ok {
		t.Fatal("allowed before the original window expired")
	}
	mr.FastForward(2 * time.Second)
	ok, err = repo.CheckAndIncrement(ctx, 1, "create_post", limit, window)
	if err != nil {
		t.Fatalf("post-expiry call: %v", err)
	}
	if !ok {
		t.Fatal("refused after the window expired")
	}
}

func TestRateLimitIsolation(t *testing.T) {
	newTestRedis(t)
	repo := &RateLimitRepository{}
	ctx := context.Background()

	if ok, _ := repo.CheckAndIncrement(ctx, 1, "like", 1, time.Minute); !ok {
		t.Fatal("first like refused")
	}
	if ok, _ := repo.CheckAndIncrement(ctx, 1, "like", 1, time.Minute); ok {
		t.Fatal("limit not enforced")
	}
	// Other users and other actions have their own counters.
	if ok, _ := repo.CheckAndIncrement(ctx, 2, "like", 1, time.Minute); !ok {
		t.Fatal("other user's counter shared")
	}
	if ok, _ := repo.CheckAndIncrement(ctx, 1, "report", 1, time.Minute); !ok {
		t.Fatal("other action's counter shared")
	}
}
