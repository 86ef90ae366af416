package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, tenant_id, invoice_number, COALESCE(customer_name, ''), COALESCE(customer_phone, ''),
	COALESCE(notes, ''), total_amount, discount_amount, final_amount, payment_method, payment_status,
	created_by, created_at`

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Un número de factura repetido viola
// sales_tenant_invoice_key y lo clasifica el TxRunner.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, tenant_id, invoice_number, customer_name, customer_phone, notes,
			total_amount, discount_amount, final_amount, payment_method, payment_status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.InvoiceNumber, nullIfEmpty(s.CustomerName), nullIfEmpty(s.CustomerPhone), nullIfEmpty(s.Notes),
		s.TotalAmount, s.DiscountAmount, s.FinalAmount, s.PaymentMethod, s.PaymentStatus, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItems inserta las líneas en un único batch.
func (r *SaleRepo) CreateItems(ctx context.Context, items []*entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `
		INSERT INTO sale_items (id, tenant_id, sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.ID, it.TenantID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	br := r.q.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

// InvoiceNumberExists indica si el número ya fue emitido en el tenant.
func (r *SaleRepo) InvoiceNumberExists(ctx context.Context, tenantID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE tenant_id = $1 AND invoice_number = $2)`,
		tenantID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// GetByID obtiene la cabecera de una venta del tenant.
func (r *SaleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE tenant_id = $1 AND id = $2`
	s, err := scanSale(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByTenant lista ventas del tenant, más recientes primero.
func (r *SaleRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE tenant_id = $1
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ItemsBySales devuelve las líneas de las ventas indicadas con nombre y SKU del producto.
func (r *SaleRepo) ItemsBySales(ctx context.Context, tenantID string, saleIDs []string) (map[string][]*entity.SaleItem, error) {
	out := make(map[string][]*entity.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT si.id, si.tenant_id, si.sale_id, si.product_id, si.quantity, si.unit_price, si.total_price,
			p.name, p.sku
		FROM sale_items si
		JOIN products p ON p.tenant_id = si.tenant_id AND p.id = si.product_id
		WHERE si.tenant_id = $1 AND si.sale_id = ANY($2::text[]::uuid[])
		ORDER BY si.sale_id, p.name, si.id`
	rows, err := r.q.Query(ctx, query, tenantID, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.TotalPrice, &it.ProductName, &it.ProductSKU); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[it.SaleID] = append(out[it.SaleID], &it)
	}
	return out, rows.Err()
}

// PaidTotals suma final_amount y cuenta las ventas pagadas en [from, to).
func (r *SaleRepo) PaidTotals(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, int, error) {
	var (
		sum   decimal.Decimal
		count int
	)
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(final_amount), 0), COUNT(*)
		FROM sales
		WHERE tenant_id = $1 AND payment_status = 'paid' AND created_at >= $2 AND created_at < $3`,
		tenantID, from, to,
	).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("paid totals: %w", err)
	}
	return sum, count, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.TenantID, &s.InvoiceNumber, &s.CustomerName, &s.CustomerPhone, &s.Notes,
		&s.TotalAmount, &s.DiscountAmount, &s.FinalAmount, &s.PaymentMethod, &s.PaymentStatus,
		&s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
