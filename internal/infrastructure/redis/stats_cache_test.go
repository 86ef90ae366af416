package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	infraredis "github.com/jhoicas/pos-api/internal/infrastructure/redis"
)

func newCache(t *testing.T, ttl time.Duration) (*infraredis.StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return infraredis.NewStatsCache(client, ttl), mr
}

func TestStatsCache_SetGetInvalidate(t *testing.T) {
	cache, _ := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	in := &dto.DashboardStatsDTO{TotalProducts: 4, TodaySales: decimal.NewFromInt(20000), TodaySalesCount: 1, DateLabel: "Marzo 2026"}
	require.NoError(t, cache.Set(ctx, "t1", in))

	got, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, got.TotalProducts)
	assert.True(t, got.TodaySales.Equal(decimal.NewFromInt(20000)))

	_, ok, _ = cache.Get(ctx, "t2")
	assert.False(t, ok, "las entradas son por tenant")

	require.NoError(t, cache.Invalidate(ctx, "t1"))
	_, ok, err = cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_Expira(t *testing.T) {
	cache, mr := newCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "t1", &dto.DashboardStatsDTO{TotalProducts: 1}))
	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCache_EntradaCorruptaSeDescarta(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("pos:stats:t1", "{no-json"))

	_, ok, err := cache.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("pos:stats:t1"))
}

func TestStatsCache_ServidorCaido(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "t1")
	assert.Error(t, err)
}
