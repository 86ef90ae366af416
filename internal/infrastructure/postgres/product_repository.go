package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, COALESCE(category_id::text, ''), name, description, sku, barcode,
	buy_price, sell_price, stock, min_stock, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, category_id, name, description, sku, barcode,
			buy_price, sell_price, stock, min_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, nullIfEmpty(p.CategoryID), p.Name, p.Description, p.SKU, p.Barcode,
		p.BuyPrice, p.SellPrice, p.Stock, p.MinStock, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant por ID.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos del tenant ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		conds = []string{"tenant_id = $1"}
		args  = []any{tenantID}
	)
	if f.OnlyActive {
		conds = append(conds, "is_active")
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// CountActive cuenta los productos activos del tenant.
func (r *ProductRepo) CountActive(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND is_active`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// LockForUpdate toma SELECT ... FOR UPDATE sobre los productos en orden de id. El orden fijo
// evita interbloqueos entre ventas que comparten productos.
func (r *ProductRepo) LockForUpdate(ctx context.Context, tenantID string, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND id = ANY($2::text[]::uuid[])
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	return collectProducts(rows)
}

// DecrementStock descuenta qty. El CHECK (stock >= 0) de la tabla es la última barrera.
func (r *ProductRepo) DecrementStock(ctx context.Context, tenantID, id string, qty int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock - $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("decrement stock: producto %s no encontrado", id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.Description, &p.SKU, &p.Barcode,
		&p.BuyPrice, &p.SellPrice, &p.Stock, &p.MinStock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
