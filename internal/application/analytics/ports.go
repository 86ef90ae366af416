package analytics

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

// StatsCache caché de estadísticas del dashboard por tenant.
type StatsCache interface {
	// Get devuelve (nil, false, nil) si no hay entrada.
	Get(ctx context.Context, tenantID string) (*dto.DashboardStatsDTO, bool, error)
	Set(ctx context.Context, tenantID string, stats *dto.DashboardStatsDTO) error
	Invalidate(ctx context.Context, tenantID string) error
}
