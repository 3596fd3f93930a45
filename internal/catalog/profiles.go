package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

var (
	ErrProfileNotFound      = errors.New("PROFILE_NOT_FOUND")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
)

const profileCachePrefix = "profile:skills:"

// ProfileRepository reads profiles from Postgres through a Redis read-through
// cache. A nil cache reads Postgres directly.
type ProfileRepository struct {
	db     *sql.DB
	cache  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileRepository(db *sql.DB, cache redis.Cmdable, ttl time.Duration, log logger.Logger) *ProfileRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProfileRepository{db: db, cache: cache, ttl: ttl, logger: log}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (models.Profile, error) {
	if p, ok := r.fromCache(ctx, userID); ok {
		return p, nil
	}

	var p models.Profile
	var skills []string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, full_name, email, skills FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.FullName, &p.Email, pq.Array(&skills))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("%w: load profile: %v", ErrQueryExecutionFailed, err)
	}
	if skills == nil {
		skills = []string{}
	}
	p.Skills = skills

	r.toCache(ctx, p)
	return p, nil
}

// Invalidate drops the cached copy after a profile edit.
func (r *ProfileRepository) Invalidate(ctx context.Context, userID string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Del(ctx, profileCachePrefix+userID).Err()
}

func (r *ProfileRepository) fromCache(ctx context.Context, userID string) (models.Profile, bool) {
	if r.cache == nil {
		return models.Profile{}, false
	}
	raw, err := r.cache.Get(ctx, profileCachePrefix+userID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("profile cache read failed", map[string]interface{}{"userId": userID, "error": err})
		}
		return models.Profile{}, false
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warn("discarding corrupt profile cache entry", map[string]interface{}{"userId": userID, "error": err})
		return models.Profile{}, false
	}
	return p, true
}

func (r *ProfileRepository) toCache(ctx context.Context, p models.Profile) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, profileCachePrefix+p.UserID, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("profile cache write failed", map[string]interface{}{"userId": p.UserID, "error": err})
	}
}
