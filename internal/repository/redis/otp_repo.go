package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OTPCodeTTL     = 5 * time.Minute
	OTPMaxAttempts = 3

	otpCodePrefix     = "otp:code"
	otpAttemptsPrefix = "otp:attempts"
)

var (
	ErrOTPNotFound    = errors.New("otp not found or expired")
	ErrOTPMismatch    = errors.New("otp mismatch")
	ErrOTPMaxAttempts = errors.New("too many otp attempts")
)

type OTPRepository struct{}

func otpCodeKey(email string) string     { return fmt.Sprintf("%s:%s", otpCodePrefix, email) }
func otpAttemptsKey(email string) string { return fmt.Sprintf("%s:%s", otpAttemptsPrefix, email) }

// Store overwrites any pending code for the address and resets the attempt
// counter; both keys share the code TTL.
func (r *OTPRepository) Store(ctx context.Context, email, code string) error {
	if err := Client.Set(ctx, otpCodeKey(email), code, OTPCodeTTL).Err(); err != nil {
		return err
	}
	return Client.Set(ctx, otpAttemptsKey(email), 0, OTPCodeTTL).Err()
}

// Verify checks the code atomically: a mismatch burns an attempt, the
// attempt cap locks the code out. A match leaves the keys in place; the
// caller consumes them once identity resolution succeeds, so a verified code
// is not lost to a failed registration. Return values: 1 ok, 0 mismatch,
// -1 missing, -2 capped.
var otpVerifyScript = redis.NewScript(`
local code = redis.call("GET", KEYS[1])
if not code then
  return -1
end
local attempts = tonumber(redis.call("GET", KEYS[2]) or "0")
if attempts >= tonumber(ARGV[2]) then
  return -2
end
if code ~= ARGV[1] then
  redis.call("INCR", KEYS[2])
  return 0
end
return 1
`)

func (r *OTPRepository) Verify(ctx context.Context, email, code string) error {
	res, err := otpVerifyScript.Run(ctx, Client,
		[]string{otpCodeKey(email), otpAttemptsKey(email)},
		code, OTPMaxAttempts).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return nil
	case 0:
		return ErrOTPMismatch
	case -2:
		return ErrOTPMaxAttempts
	default:
		return ErrOTPNotFound
	}
}

// Consume deletes both keys, making the verified code single-use.
func (r *OTPRepository) Consume(ctx context.Context, email string) error {
	return Client.Del(ctx, otpCodeKey(email), otpAttemptsKey(email)).Err()
}
