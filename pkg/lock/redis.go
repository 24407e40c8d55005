package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock that was taken over by another instance is never released.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance Redis lock (SET NX PX + token-checked
// release). The TTL bounds how long a crashed holder can block a key.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		prefix: "lock:",
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	if l.rdb == nil {
		return nil, errors.New("redis locker: no client")
	}
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis locker: acquire %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			// the caller's ctx may already be cancelled; release regardless
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if runErr := releaseScript.Run(releaseCtx, l.rdb, []string{redisKey}, token).Err(); runErr != nil {
				err = fmt.Errorf("redis locker: release %s: %w", key, runErr)
			}
		})
		return err
	}, nil
}
