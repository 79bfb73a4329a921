package redis

import (
	"context"
	"testing"
	"time"
)

func TestTokenBlacklist(t *testing.T) {
	mr := newTestRedis(t)
	repo := &TokenRepository{}
	ctx := context.Background()

	listed, err := repo.IsBlacklisted(ctx, "jti-1")
	if err != nil || listed {
		t.Fatalf("fresh jti = (%v, %v), want not listed", listed, err)
	}

	if err := repo.Blacklist(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	listed, err = repo.IsBlacklisted(ctx, "jti-1")
	if err != nil || !listed {
		t.Fatalf("spent jti = (%v, %v), want listed", listed, err)
	}

	// The entry only needs to outlive the token.
	mr.FastForward(time.Hour + time.Second)
	listed, err = repo.IsBlacklisted(ctx, "jti-1")
	if err != nil || listed {
		t.Fatalf("expired entry = (%v, %v), want not listed", listed, err)
	}
}

func TestTokenBlacklistSkipsExpired(t *testing.T) {
	newTestRedis(t)
	repo := &TokenRepository{}
	ctx := context.Background()

	if err := repo.Blacklist(ctx, "jti-2", -time.Minute); err != nil {
		t.Fatalf("blacklist with negative ttl: %v", err)
	}
	listed, err := repo.IsBlacklisted(ctx, "jti-2")
	if err != nil || listed {
		t.Fatalf("already-expired jti = (%v, %v), want not listed", listed, err)
	}
}
