package fraud

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisCounters оконные счетчики поверх redis INCR+EXPIRE. Окно бакетируется
// по своей длительности: «последний час» — это текущий часовой бакет, что для
// эвристик достаточно и не требует хранить отметки каждого события.
type RedisCounters struct {
	client *redis.Client
}

func NewRedisCounters(client *redis.Client) *RedisCounters {
	return &RedisCounters{client: client}
}

func (r *RedisCounters) Observe(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := time.Now().Unix() / int64(window.Seconds())
	bucketKey := fmt.Sprintf("fraud:cnt:%s:%d", key, bucket)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, bucketKey)
	pipe.Expire(ctx, bucketKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Wrapf(err, "observing counter %s", bucketKey)
	}
	return incr.Val(), nil
}

func userKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func deviceKey(fingerprint string) string {
	return "device:" + fingerprint
}
