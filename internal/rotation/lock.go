package rotation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RotationLockKey    = "payroll:rotation:lock"
	DefaultLockTimeout = 30 * time.Minute
)

// ErrLockNotHeld is returned by Release when the lock expired and possibly
// passed to another owner before the run finished.
var ErrLockNotHeld = errors.New("rotation lock no longer held by this run")

// RunLock is keyed by owner so only the run that took the lock can free it.
type RunLock interface {
	Acquire(ctx context.Context, owner string) (bool, error)
	Release(ctx context.Context, owner string) error
}

// Deletes KEYS[1] only while it still holds ARGV[1].
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock keeps two processes from rotating at the same time. The TTL
// frees the lock if the holder dies mid-run.
type RedisLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisLock(rdb *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultLockTimeout
	}
	return &RedisLock{rdb: rdb, key: RotationLockKey, ttl: ttl}
}

func (l *RedisLock) Acquire(ctx context.Context, owner string) (bool, error) {
	return l.rdb.SetNX(ctx, l.key, owner, l.ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, owner string) error {
	deleted, err := releaseLockScript.Run(ctx, l.rdb, []string{l.key}, owner).Int64()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}
