package cache

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

const (
	bodyKeyPrefix = "chapter:body:"
	bodyTTLJitter = 10 * time.Minute // anti-stampede
)

// RedisChapterBodyCache holds rendered chapter bodies so granted reads skip
// the longtext column. Misses and Redis failures both fall through to the
// store; eviction after an edit keeps stale HTML from being served.
type RedisChapterBodyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisChapterBodyCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisChapterBodyCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisChapterBodyCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisChapterBodyCache) key(chapterSID string) string {
	return bodyKeyPrefix + chapterSID
}

func (c *RedisChapterBodyCache) GetBody(ctx context.Context, chapterSID string) (string, bool) {
	body, err := c.client.Get(ctx, c.key(chapterSID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("chapter body cache read failed", "chapter_sid", chapterSID, "error", err)
		}
		return "", false
	}
	return body, true
}

func (c *RedisChapterBodyCache) SetBody(ctx context.Context, chapterSID, body string) {
	ttl := c.ttl + time.Duration(rand.Int64N(int64(bodyTTLJitter)))
	if err := c.client.Set(ctx, c.key(chapterSID), body, ttl).Err(); err != nil {
		c.logger.Warn("chapter body cache write failed", "chapter_sid", chapterSID, "error", err)
	}
}

func (c *RedisChapterBodyCache) EvictBody(ctx context.Context, chapterSID string) {
	if err := c.client.Del(ctx, c.key(chapterSID)).Err(); err != nil {
		c.logger.Warn("chapter body cache eviction failed", "chapter_sid", chapterSID, "error", err)
	}
}
