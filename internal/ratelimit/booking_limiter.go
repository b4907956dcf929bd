package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/reserva/internal/config"
)

const (
	keyBookingMerchant = "booking:create:merchant:%d"
	keyBookingSlot     = "booking:slot:%d:%d:%d"
)

// BookingLimiter throttles booking creates per merchant and guards a
// specific (merchant, staff, start) slot against simultaneous duplicate
// submissions. Both are best-effort optimizations in front of the
// database exclusion constraint; when redis is not configured every
// check passes.
type BookingLimiter struct {
	enabled bool

	bucket *TokenBucket
	guard  *Locker

	rate     float64
	burst    int
	guardTTL time.Duration
}

func NewBookingLimiter(cfg config.Config) *BookingLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	return &BookingLimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		guard:    NewLocker(client),
		rate:     cfg.BookingRatePerSec,
		burst:    cfg.BookingBurst,
		guardTTL: time.Duration(cfg.SlotGuardTTLSeconds) * time.Second,
	}
}

func (l *BookingLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowMerchant consumes one create token for the merchant.
func (l *BookingLimiter) AllowMerchant(ctx context.Context, merchantID snowflake.ID) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyBookingMerchant, merchantID), l.rate, l.burst)
}

// TryLockSlot claims the slot key for the duration of one create attempt.
// A false return means another request is booking the same slot right now.
func (l *BookingLimiter) TryLockSlot(ctx context.Context, merchantID, staffID snowflake.ID, startAt time.Time) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(keyBookingSlot, merchantID, staffID, startAt.UTC().Unix())
	return l.guard.TryLock(ctx, key, l.guardTTL)
}

// ReleaseSlot releases a slot claim acquired by TryLockSlot.
func (l *BookingLimiter) ReleaseSlot(ctx context.Context, merchantID, staffID snowflake.ID, startAt time.Time, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keyBookingSlot, merchantID, staffID, startAt.UTC().Unix())
	return l.guard.Release(ctx, key, token)
}
