package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// LedgerFilter criterios del listado del libro financiero.
type LedgerFilter struct {
	Type   string // income | expense | vacío = todos
	Limit  int
	Offset int
}

// LedgerRepository puerto del libro financiero: escritura (poster) y lectura (reportes).
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	// List entradas más recientes primero.
	List(ctx context.Context, tenantID string, f LedgerFilter) ([]*entity.LedgerEntry, error)
	ListByReference(ctx context.Context, tenantID, referenceID string) ([]*entity.LedgerEntry, error)
	// Totals suma ingresos y egresos en [from, to).
	Totals(ctx context.Context, tenantID string, from, to time.Time) (income, expense decimal.Decimal, err error)
}
