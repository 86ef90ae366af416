// Package analytics contiene los casos de uso de reportes del POS: el resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// DashboardUseCase genera las estadísticas del día y del mes en curso.
//
// Fuentes: catálogo (productos activos), ventas (pagadas de hoy) y libro financiero (mes).
// El resultado se cachea por tenant; el motor de ventas y los movimientos manuales lo invalidan.
type DashboardUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	ledger   repository.LedgerRepository
	cache    StatsCache
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	ledger repository.LedgerRepository,
	cache StatsCache,
	loc *time.Location,
	log *logger.Logger,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{products: products, sales: sales, ledger: ledger, cache: cache, loc: loc, log: log, now: time.Now}
}

// GetStats construye el DashboardStatsDTO del tenant.
//
// Tres consultas en paralelo:
//  1. CountActive             → TotalProducts
//  2. PaidTotals(hoy)         → TodaySales + TodaySalesCount
//  3. Totals(libro, mes)      → MonthlyIncome / Expense / Balance
func (uc *DashboardUseCase) GetStats(ctx context.Context, tenantID string) (*dto.DashboardStatsDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, tenantID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("caché de estadísticas no disponible")
		} else if ok {
			return cached, nil
		}
	}

	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		totalProducts   int
		todaySales      decimal.Decimal
		todaySalesCount int
		income, expense decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.products.CountActive(gctx, tenantID)
		if err != nil {
			return fmt.Errorf("dashboard: productos activos: %w", err)
		}
		totalProducts = n
		return nil
	})
	g.Go(func() error {
		sum, count, err := uc.sales.PaidTotals(gctx, tenantID, todayStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		todaySales, todaySalesCount = sum, count
		return nil
	})
	g.Go(func() error {
		in, out, err := uc.ledger.Totals(gctx, tenantID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: libro del mes: %w", err)
		}
		income, expense = in, out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsDTO{
		TotalProducts:   totalProducts,
		TodaySales:      todaySales.Round(2),
		TodaySalesCount: todaySalesCount,
		MonthlyIncome:   income.Round(2),
		MonthlyExpense:  expense.Round(2),
		MonthlyBalance:  income.Sub(expense).Round(2),
		DateLabel:       monthLabel(now),
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, tenantID, stats); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo cachear estadísticas")
		}
	}
	return stats, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
