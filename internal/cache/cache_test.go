package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortiurbani/orti-api/internal/config"
)

type reading struct {
	GardenID    uint
	Temperature float64
}

func setupTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(context.Background(), &config.RedisConfig{
		Addr: mr.Addr(),
		TTL:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestRedis_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	expected := reading{GardenID: 3, Temperature: 21.5}
	require.NoError(t, c.Set(ctx, "meteo:3", expected))

	var actual reading
	found, err := c.Get(ctx, "meteo:3", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "meteo:3", &actual)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := setupTestCache(t)

	require.NoError(t, c.Set(ctx, "key", "value"))
	require.NoError(t, c.Invalidate(ctx, "key"))

	var out string
	found, err := c.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_GetInvalidJSON(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestCache(t)

	require.NoError(t, mr.Set("bad", "not-json"))

	var out reading
	found, err := c.Get(ctx, "bad", &out)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Noop
	found, err := c.Get(context.Background(), "any", &struct{}{})
	require.NoError(t, err)
	assert.False(t, found)
}
