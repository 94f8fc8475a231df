package lib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

var ErrLockNotAcquired = errors.New("resource is locked by another request")

// compare-and-delete so an expired lock taken over by another request is left alone
const releaseLockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// GetRedisClient returns nil when REDIS_HOST is not configured.
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

func ZoneLockKey(campsiteID uint, zone string) string {
	return fmt.Sprintf("campsite::%d:zone:%s:lock", campsiteID, zone)
}

// AcquireLock takes a lock that expires after ttl. With a nil client locking
// is disabled and the returned release func is a no-op.
func AcquireLock(ctx context.Context, rd *redis.Client, key string, token string, ttl time.Duration) (func(), error) {
	if rd == nil {
		return func() {}, nil
	}
	ok, err := rd.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		log.Printf("[redis] Error acquiring lock %s: %s\n", key, err.Error())
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return func() {
		if err := rd.Eval(context.Background(), releaseLockScript, []string{key}, token).Err(); err != nil {
			log.Printf("[redis] Error releasing lock %s: %s\n", key, err.Error())
		}
	}, nil
}
