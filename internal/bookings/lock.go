package bookings

import (
	"context"
	"fmt"
	"time"

	"busly/internal/shared/constants"
	"busly/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatLocker serialises seat allocation per schedule. The unique index on
// booking_seats stays authoritative; the lock keeps contending requests from
// all racing into the insert.
type SeatLocker interface {
	Lock(ctx context.Context, scheduleID uuid.UUID) (unlock func(), err error)
}

// Only the holder of the token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisSeatLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *logger.Logger
}

func NewRedisSeatLocker(client *redis.Client, ttl, wait time.Duration) *RedisSeatLocker {
	return &RedisSeatLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  50 * time.Millisecond,
		logger: logger.GetDefault(),
	}
}

// PreloadScripts caches the release script on the server
func (l *RedisSeatLocker) PreloadScripts(ctx context.Context) error {
	if err := releaseScript.Load(ctx, l.client).Err(); err != nil {
		return fmt.Errorf("failed to load lock release script: %w", err)
	}
	return nil
}

func (l *RedisSeatLocker) Lock(ctx context.Context, scheduleID uuid.UUID) (func(), error) {
	key := constants.BuildScheduleLockKey(scheduleID.String())
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire schedule lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// release runs on its own context so a cancelled request still frees the lock
func (l *RedisSeatLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("Failed to release schedule lock", "key", key, "error", err)
	}
}
