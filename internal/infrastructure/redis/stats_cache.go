// Package redis adaptador de caché sobre go-redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/dto"
)

var _ analytics.StatsCache = (*StatsCache)(nil)

const keyPrefix = "pos:stats:"

// StatsCache guarda el DashboardStatsDTO por tenant como JSON con TTL.
type StatsCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewClient crea el cliente a partir de una URL redis:// y verifica la conexión.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewStatsCache construye la caché. ttl <= 0 usa un minuto.
func NewStatsCache(client goredis.UniversalClient, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{client: client, ttl: ttl}
}

func key(tenantID string) string { return keyPrefix + tenantID }

// Get devuelve (nil, false, nil) si la entrada no existe.
func (c *StatsCache) Get(ctx context.Context, tenantID string) (*dto.DashboardStatsDTO, bool, error) {
	raw, err := c.client.Get(ctx, key(tenantID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get stats: %w", err)
	}
	var stats dto.DashboardStatsDTO
	if err := json.Unmarshal(raw, &stats); err != nil {
		// Entrada corrupta: se trata como ausente.
		_ = c.client.Del(ctx, key(tenantID)).Err()
		return nil, false, nil
	}
	return &stats, true, nil
}

// Set guarda las estadísticas con el TTL configurado.
func (c *StatsCache) Set(ctx context.Context, tenantID string, stats *dto.DashboardStatsDTO) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, key(tenantID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set stats: %w", err)
	}
	return nil
}

// Invalidate elimina la entrada del tenant.
func (c *StatsCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, key(tenantID)).Err(); err != nil {
		return fmt.Errorf("redis del stats: %w", err)
	}
	return nil
}
