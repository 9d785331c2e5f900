package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

const (
	handleKeyPrefix = "profile:handle:"
	idKeyPrefix     = "profile:id:"
	// generationKey is bumped by every invalidation. A fill carries the
	// generation observed before its database read and is dropped if the
	// counter moved in the meantime.
	generationKey = "profile:generation"
)

var errStaleFill = errors.New("profile changed while the cache fill was in flight")

// redisProfileCache stores the serialized public profile under its folded
// handle, plus a profile id -> handle pointer so invalidation does not need
// to know the old handle.
type redisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration, log logger.Logger) profile.Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &redisProfileCache{client: client, ttl: ttl, logger: log}
}

func handleKey(handle string) string {
	return handleKeyPrefix + profile.HandleKey(handle)
}

func idKey(id uuid.UUID) string {
	return idKeyPrefix + id.String()
}

func (c *redisProfileCache) GetByHandle(ctx context.Context, handle string) (*profile.Profile, profile.Generation, bool) {
	vals, err := c.client.MGet(ctx, handleKey(handle), generationKey).Result()
	if err != nil {
		c.logger.Warn("Profile cache read failed", zap.String("handle", handle), zap.Error(err))
		return nil, 0, false
	}

	var gen profile.Generation
	if raw, ok := vals[1].(string); ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.logger.Warn("Profile cache generation is not a number", zap.String("value", raw))
		}
		gen = profile.Generation(n)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		c.logger.Warn("Dropping undecodable cached profile", zap.String("handle", handle), zap.Error(err))
		c.client.Del(ctx, handleKey(handle))
		return nil, gen, false
	}
	return &p, gen, true
}

// SetByHandle writes p only if no invalidation happened since gen was read.
// WATCH aborts the transaction when an invalidation lands between the check
// and EXEC.
func (c *redisProfileCache) SetByHandle(ctx context.Context, p *profile.Profile, gen profile.Generation) {
	if p.Handle == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("Cannot encode profile for cache", zap.String("profile_id", p.ID.String()), zap.Error(err))
		return
	}

	key := handleKey(*p.Handle)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if profile.Generation(current) != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			pipe.Set(ctx, idKey(p.ID), key, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("Skipped stale profile cache fill", zap.String("profile_id", p.ID.String()))
	default:
		c.logger.Warn("Profile cache write failed", zap.String("profile_id", p.ID.String()), zap.Error(err))
	}
}

// Invalidate bumps the generation before deleting so fills that started
// earlier can no longer land.
func (c *redisProfileCache) Invalidate(ctx context.Context, profileID uuid.UUID) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("Profile cache generation bump failed", zap.String("profile_id", profileID.String()), zap.Error(err))
	}

	key, err := c.client.Get(ctx, idKey(profileID)).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		c.logger.Warn("Profile cache lookup failed during invalidation", zap.String("profile_id", profileID.String()), zap.Error(err))
		return
	}
	if err := c.client.Del(ctx, key, idKey(profileID)).Err(); err != nil {
		c.logger.Warn("Profile cache invalidation failed", zap.String("profile_id", profileID.String()), zap.Error(err))
	}
}

type noopProfileCache struct{}

// NewNoopProfileCache is used when Redis is not configured.
func NewNoopProfileCache() profile.Cache {
	return noopProfileCache{}
}

func (noopProfileCache) GetByHandle(context.Context, string) (*profile.Profile, profile.Generation, bool) {
	return nil, 0, false
}

func (noopProfileCache) SetByHandle(context.Context, *profile.Profile, profile.Generation) {}

func (noopProfileCache) Invalidate(context.Context, uuid.UUID) {}
