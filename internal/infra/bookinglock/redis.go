package bookinglock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
)

const (
	defaultRetryEvery = 25 * time.Millisecond
	keyPrefix         = "salon-scheduler:"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX PX mutex shared by every API instance.
type RedisLocker struct {
	client *redis.Client
	log    *zap.Logger

	// Wait bounds how long Lock retries before giving up with
	// domain.ErrLockTimeout. Zero means one attempt.
	Wait       time.Duration
	RetryEvery time.Duration
}

func NewRedisLocker(client *redis.Client, wait time.Duration, log *zap.Logger) *RedisLocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLocker{
		client:     client,
		log:        log.Named("bookinglock"),
		Wait:       wait,
		RetryEvery: defaultRetryEvery,
	}
}

// NewClient connects to Redis and pings it once.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("lock token: %w", err)
	}
	key = keyPrefix + key

	deadline := time.Now().Add(l.Wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.release(key, token), nil
		}

		if !time.Now().Before(deadline) {
			return nil, domain.ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.RetryEvery):
		}
	}
}

func (l *RedisLocker) release(key, token string) func() {
	return func() {
		// the request context may already be cancelled here
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn("release booking lock", zap.String("key", key), zap.Error(err))
		}
	}
}

var _ domain.SlotLocker = (*RedisLocker)(nil)
