package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testEmail = "a1b2c3" // fingerprint, not an address

func TestOTPVerify(t *testing.T) {
	newTestRedis(t)
	repo := &OTPRepository{}
	ctx := context.Background()

	if err := repo.Store(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := repo.Verify(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// A match leaves the code in place until the caller consumes it, so a
	// registration that fails after the check does not burn the code.
	if err := repo.Verify(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("re-verify before consume: %v", err)
	}
	if err := repo.Consume(ctx, testEmail); err != nil {
		t.Fatalf("consume: %v", err)
	}
	// Consumed means single-use from here on.
	if err := repo.Verify(ctx, testEmail, "123456"); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("post-consume err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPMatchDoesNotBurnAttempts(t *testing.T) {
	newTestRedis(t)
	repo := &OTPRepository{}
	ctx := context.Background()

	if err := repo.Store(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("store: %v", err)
	}
	for i := 0; i < OTPMaxAttempts+2; i++ {
		if err := repo.Verify(ctx, testEmail, "123456"); err != nil {
			t.Fatalf("match %d: %v", i, err)
		}
	}
}

func TestOTPMismatchBurnsAttempts(t *testing.T) {
	newTestRedis(t)
	repo := &OTPRepository{}
	ctx := context.Background()

	if err := repo.Store(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("store: %v", err)
	}
	for i := 0; i < OTPMaxAttempts; i++ {
		if err := repo.Verify(ctx, testEmail, "000000"); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("attempt %d err = %v, want ErrOTPMismatch", i, err)
		}
	}
	// Attempt cap locks out even the correct code.
	if err := repo.Verify(ctx, testEmail, "123456"); !errors.Is(err, ErrOTPMaxAttempts) {
		t.Errorf("capped err = %v, want ErrOTPMaxAttempts", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	mr := newTestRedis(t)
	repo := &OTPRepository{}
	ctx := context.Background()

	if err := repo.Store(ctx, testEmail, "123456"); err != nil {
		t.Fatalf("store: %v", err)
	}
	mr.FastForward(OTPCodeTTL + time.Second)
	if err := repo.Verify(ctx, testEmail, "123456"); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("expired err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPReissueResetsAttempts(t *testing.T) {
	newTestRedis(t)
	repo := &OTPRepository{}
	ctx := context.Background()

	if err := repo.Store(ctx, testEmail, "111111"); err != nil {
		t.Fatalf("store: %v", err)
	}
	for i := 0; i < OTPMaxAttempts; i++ {
		_ = repo.Verify(ctx, testEmail, "000000")
	}
	if err := repo.Store(ctx, testEmail, "222222"); err != nil {
		t.Fatalf("re-store: %v", err)
	}
	if err := repo.Verify(ctx, testEmail, "222222"); err != nil {
		t.Errorf("fresh code refused after reissue: %v", err)
	}
}
