package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// newTestRedis points the package client at an in-process server.
func newTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	if err := Init(mr.Addr(), "", 0); err != nil {
		t.Fatalf("redis init: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
	return mr
}
