package lib

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneLockKey(t *testing.T) {
	assert.Equal(t, "campsite::7:zone:Zone A:lock", ZoneLockKey(7, "Zone A"))
}

func TestAcquireLock(t *testing.T) {
	key := ZoneLockKey(1, "Zone A")
	ttl := 10 * time.Second

	t.Run("no client disables locking", func(t *testing.T) {
		release, err := AcquireLock(context.Background(), nil, key, "token", ttl)
		require.NoError(t, err)
		release()
	})

	t.Run("acquires and releases", func(t *testing.T) {
		rd, mock := redismock.NewClientMock()
		mock.ExpectSetNX(key, "token", ttl).SetVal(true)
		mock.ExpectEval(releaseLockScript, []string{key}, "token").SetVal(int64(1))

		release, err := AcquireLock(context.Background(), rd, key, "token", ttl)
		require.NoError(t, err)
		release()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held lock is reported", func(t *testing.T) {
		rd, mock := redismock.NewClientMock()
		mock.ExpectSetNX(key, "token", ttl).SetVal(false)

		_, err := AcquireLock(context.Background(), rd, key, "token", ttl)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		rd, mock := redismock.NewClientMock()
		mock.ExpectSetNX(key, "token", ttl).SetErr(errors.New("connection refused"))

		_, err := AcquireLock(context.Background(), rd, key, "token", ttl)
		assert.EqualError(t, err, "connection refused")
	})
}
