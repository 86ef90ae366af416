package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria. Las escrituras solo se aceptan dentro de una unidad de trabajo.
type SaleRepo struct {
	s  *Store
	tx *txState
}

// Create agrega la cabecera a la unidad de trabajo.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if r.tx == nil {
		return errTxRequired
	}
	if err := r.tx.checkTenant(sale.TenantID); err != nil {
		return err
	}
	if r.tx.invoiceExists(sale.InvoiceNumber) {
		return fmt.Errorf("memory: número de factura %s duplicado", sale.InvoiceNumber)
	}
	r.tx.sales = append(r.tx.sales, *sale)
	return nil
}

// CreateItems agrega las líneas a la unidad de trabajo.
func (r *SaleRepo) CreateItems(_ context.Context, items []*entity.SaleItem) error {
	if r.tx == nil {
		return errTxRequired
	}
	for _, it := range items {
		if err := r.tx.checkTenant(it.TenantID); err != nil {
			return err
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("memory: cantidad inválida en línea %s", it.ID)
		}
		r.tx.items = append(r.tx.items, *it)
	}
	return nil
}

// InvoiceNumberExists considera también las ventas pendientes de la unidad de trabajo.
func (r *SaleRepo) InvoiceNumberExists(_ context.Context, tenantID, number string) (bool, error) {
	if r.tx != nil {
		if err := r.tx.checkTenant(tenantID); err != nil {
			return false, err
		}
		return r.tx.invoiceExists(number), nil
	}
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.invoices[number]
	return ok, nil
}

// GetByID devuelve nil, nil si no existe en el tenant.
func (r *SaleRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Sale, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// ListByTenant más recientes primero.
func (r *SaleRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	list := make([]*entity.Sale, 0, len(t.saleOrder))
	for i := len(t.saleOrder) - 1; i >= 0; i-- {
		s := t.sales[t.saleOrder[i]]
		list = append(list, &s)
	}
	return paginate(list, limit, offset), nil
}

// ItemsBySales líneas con nombre y SKU del producto.
func (r *SaleRepo) ItemsBySales(_ context.Context, tenantID string, saleIDs []string) (map[string][]*entity.SaleItem, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string][]*entity.SaleItem, len(saleIDs))
	for _, id := range saleIDs {
		for _, it := range t.items[id] {
			it := it
			if p, ok := t.products[it.ProductID]; ok {
				it.ProductName = p.Name
				it.ProductSKU = p.SKU
			}
			out[id] = append(out[id], &it)
		}
	}
	return out, nil
}

// PaidTotals ventas pagadas en [from, to).
func (r *SaleRepo) PaidTotals(_ context.Context, tenantID string, from, to time.Time) (decimal.Decimal, int, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := decimal.Zero
	count := 0
	for _, s := range t.sales {
		if s.PaymentStatus != entity.PaymentStatusPaid || s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		total = total.Add(s.FinalAmount)
		count++
	}
	return total, count, nil
}
