package redis

import (
	"context"
	"testing"
	"time"
)

type cachedRow struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func TestCacheJSONRoundTrip(t *testing.T) {
	newTestRedis(t)
	repo := &CacheRepository{}
	ctx := context.Background()
	key := repo.CommunityListKey(7)

	var miss []cachedRow
	hit, err := repo.GetJSON(ctx, key, &miss)
	if err != nil || hit {
		t.Fatalf("cold read = (%v, %v), want miss", hit, err)
	}

	want := []cachedRow{{ID: 1, Name: "FE-COMP"}, {ID: 2, Name: "Campus"}}
	if err := repo.SetJSON(ctx, key, want, CommunityListTTL); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []cachedRow
	hit, err = repo.GetJSON(ctx, key, &got)
	if err != nil || !hit {
		t.Fatalf("warm read = (%v, %v), want hit", hit, err)
	}
	if len(got) != 2 || got[0].Name != "FE-COMP" {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	mr := newTestRedis(t)
	repo := &CacheRepository{}
	ctx := context.Background()
	key := repo.CommunityListKey(7)

	mr.Set(key, "{not json")
	var got []cachedRow
	hit, err := repo.GetJSON(ctx, key, &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Error("corrupt entry reported as hit")
	}
}

func TestCacheInvalidate(t *testing.T) {
	newTestRedis(t)
	repo := &CacheRepository{}
	ctx := context.Background()

	if err := repo.SetJSON(ctx, repo.CommunityListKey(7), []cachedRow{{ID: 1}}, CommunityListTTL); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.InvalidateCommunityList(ctx, 7); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	var got []cachedRow
	if hit, _ := repo.GetJSON(ctx, repo.CommunityListKey(7), &got); hit {
		t.Error("entry survived invalidation")
	}
}

func TestPresenceExpiresTogether(t *testing.T) {
	mr := newTestRedis(t)
	repo := &PresenceRepository{}
	ctx := context.Background()

	for userID := uint64(1); userID <= 3; userID++ {
		if err := repo.Touch(ctx, 10, userID); err != nil {
			t.Fatalf("touch %d: %v", userID, err)
		}
	}
	// Re-touching the same user does not grow the set.
	if err := repo.Touch(ctx, 10, 1); err != nil {
		t.Fatalf("re-touch: %v", err)
	}

	n, err := repo.Count(ctx, 10)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	mr.FastForward(PresenceTTL + time.Second)
	n, err = repo.Count(ctx, 10)
	if err != nil {
		t.Fatalf("count after expiry: %v", err)
	}
	if n != 0 {
		t.Errorf("count after expiry = %d, want 0", n)
	}
}
