package rotation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"etqan-payroll/internal/rotation"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisLock(t *testing.T) {
	ctx := context.Background()
	keys := []string{rotation.RotationLockKey}

	t.Run("acquire and release", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lock := rotation.NewRedisLock(rdb, time.Minute)

		mock.ExpectSetNX(rotation.RotationLockKey, "run-1", time.Minute).SetVal(true)
		mock.ExpectEvalSha(rotation.ReleaseLockScript.Hash(), keys, "run-1").SetVal(int64(1))

		ok, err := lock.Acquire(ctx, "run-1")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, lock.Release(ctx, "run-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("release after expiry leaves the new owner's lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lock := rotation.NewRedisLock(rdb, time.Minute)

		// run-2 took the key after run-1's TTL ran out; the script deletes nothing.
		mock.ExpectEvalSha(rotation.ReleaseLockScript.Hash(), keys, "run-1").SetVal(int64(0))

		err := lock.Release(ctx, "run-1")

		assert.ErrorIs(t, err, rotation.ErrLockNotHeld)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held elsewhere", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lock := rotation.NewRedisLock(rdb, 0)

		mock.ExpectSetNX(rotation.RotationLockKey, "run-1", rotation.DefaultLockTimeout).SetVal(false)

		ok, err := lock.Acquire(ctx, "run-1")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("redis error", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		lock := rotation.NewRedisLock(rdb, time.Minute)

		mock.ExpectSetNX(rotation.RotationLockKey, "run-1", time.Minute).SetErr(errors.New("conn refused"))

		_, err := lock.Acquire(ctx, "run-1")
		assert.Error(t, err)
	})
}
