package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []*entity.SaleItem) error
	InvoiceNumberExists(ctx context.Context, tenantID, number string) (bool, error)

	// GetByID devuelve nil, nil si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error)
	// ListByTenant ventas más recientes primero.
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error)
	// ItemsBySales líneas agrupadas por sale_id, con nombre y SKU del producto.
	ItemsBySales(ctx context.Context, tenantID string, saleIDs []string) (map[string][]*entity.SaleItem, error)
	// PaidTotals suma final_amount y cuenta las ventas pagadas en [from, to).
	PaidTotals(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, int, error)
}
