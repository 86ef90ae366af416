package sales

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleTxRunner ejecuta fn dentro de una única unidad de trabajo acotada al tenant.
// Si fn devuelve error no queda ningún cambio visible; el commit es el único punto de visibilidad.
// Los errores de infraestructura se devuelven clasificados (domain.ErrConcurrencyConflict o
// *domain.PersistenceError); los errores de dominio devueltos por fn se propagan sin cambios.
type SaleTxRunner interface {
	RunSale(ctx context.Context, tenantID string, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		ledgerRepo repository.LedgerRepository,
		seqRepo repository.InvoiceSequenceRepository,
	) error) error
}

// StatsInvalidator descarta las estadísticas cacheadas de un tenant tras registrar una venta.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}
