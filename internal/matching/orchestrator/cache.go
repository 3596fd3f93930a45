package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"jobmatch-workers/internal/matching/oracle"
)

// Cache stores external percentages for the idempotence window.
type Cache interface {
	Get(ctx context.Context, key string) (int, bool, error)
	Set(ctx context.Context, key string, percentage int, ttl time.Duration) error
}

type RedisCache struct {
	client redis.Cmdable
}

func NewRedisCache(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (int, bool, error) {
	pct, err := c.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return pct, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, percentage int, ttl time.Duration) error {
	return c.client.Set(ctx, key, percentage, ttl).Err()
}

var cacheNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobmatch-workers/match"))

// cacheKey is stable across input order and letter case because the request
// carries normalized, sorted skill lists. Everything the oracle prompt reads
// is part of the key.
func cacheKey(provider string, req oracle.Request) string {
	material := strings.Join([]string{
		provider,
		req.JobID,
		req.JobTitle,
		string(req.JobType),
		string(req.JobMode),
		strings.Join(req.RequiredSkills, ","),
		strings.Join(req.CandidateSkills, ","),
	}, "|")
	return "match:" + uuid.NewSHA1(cacheNamespace, []byte(material)).String()
}
