package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/pkg/logger"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, profile.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisProfileCache(client, time.Minute, logger.NewNopLogger())
}

func profileWithHandle(handle string) *profile.Profile {
	p := profile.New(uuid.New())
	p.Handle = &handle
	return p
}

func TestProfileCache_SetAndGetIgnoresCase(t *testing.T) {
	ctx := context.Background()
	_, c := newTestCache(t)
	p := profileWithHandle("Alice")

	c.SetByHandle(ctx, p, 0)

	got, _, ok := c.GetByHandle(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Alice", *got.Handle)
}

func TestProfileCache_Miss(t *testing.T) {
	_, c := newTestCache(t)

	_, _, ok := c.GetByHandle(context.Background(), "nobody")
	assert.False(t, ok)
}

func TestProfileCache_InvalidateByID(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)
	p := profileWithHandle("alice")
	c.SetByHandle(ctx, p, 0)

	c.Invalidate(ctx, p.ID)

	_, _, ok := c.GetByHandle(ctx, "alice")
	assert.False(t, ok)
	assert.False(t, mr.Exists(idKey(p.ID)))
}

func TestProfileCache_FillAfterInvalidationIsDropped(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)
	p := profileWithHandle("alice")

	_, gen, ok := c.GetByHandle(ctx, "alice")
	require.False(t, ok)

	// Another request updates the profile while this one reads the database.
	c.Invalidate(ctx, p.ID)
	c.SetByHandle(ctx, p, gen)

	assert.False(t, mr.Exists(handleKey("alice")))
	assert.False(t, mr.Exists(idKey(p.ID)))

	_, gen, ok = c.GetByHandle(ctx, "alice")
	require.False(t, ok)
	c.SetByHandle(ctx, p, gen)

	_, _, ok = c.GetByHandle(ctx, "alice")
	assert.True(t, ok)
}

func TestProfileCache_InvalidatingAnyProfileBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	_, c := newTestCache(t)

	_, before, _ := c.GetByHandle(ctx, "alice")
	c.Invalidate(ctx, uuid.New())
	_, after, _ := c.GetByHandle(ctx, "alice")

	assert.Equal(t, before+1, after)
}

func TestProfileCache_Expires(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)
	c.SetByHandle(ctx, profileWithHandle("alice"), 0)

	mr.FastForward(2 * time.Minute)

	_, _, ok := c.GetByHandle(ctx, "alice")
	assert.False(t, ok)
}

func TestProfileCache_CorruptEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)
	require.NoError(t, mr.Set(handleKey("alice"), "{not json"))

	_, _, ok := c.GetByHandle(ctx, "alice")
	assert.False(t, ok)
	assert.False(t, mr.Exists(handleKey("alice")))
}

func TestProfileCache_BackendDownIsAMiss(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)
	mr.Close()

	c.SetByHandle(ctx, profileWithHandle("alice"), 0)
	_, _, ok := c.GetByHandle(ctx, "alice")
	assert.False(t, ok)
}

func TestNoopProfileCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopProfileCache()
	c.SetByHandle(ctx, profileWithHandle("alice"), 0)

	_, _, ok := c.GetByHandle(ctx, "alice")
	assert.False(t, ok)
}
