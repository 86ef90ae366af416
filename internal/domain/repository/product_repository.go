package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ProductFilter criterios del listado de productos.
type ProductFilter struct {
	CategoryID string
	Search     string // coincidencia parcial sin distinguir mayúsculas en el nombre
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository puerto de persistencia del catálogo. Todas las operaciones están acotadas al tenant.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	List(ctx context.Context, tenantID string, f ProductFilter) ([]*entity.Product, error)
	CountActive(ctx context.Context, tenantID string) (int, error)

	// LockForUpdate bloquea las filas de los productos indicados hasta el fin de la transacción,
	// en orden ascendente de id. Los ids inexistentes en el tenant se omiten del resultado.
	LockForUpdate(ctx context.Context, tenantID string, ids []string) ([]*entity.Product, error)
	// DecrementStock descuenta qty del stock; requiere haber bloqueado la fila antes.
	DecrementStock(ctx context.Context, tenantID, id string, qty int) error
}
