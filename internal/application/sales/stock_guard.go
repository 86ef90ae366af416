package sales

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StockLine cantidad solicitada de un producto.
type StockLine struct {
	ProductID string
	Quantity  int
}

// StockGuard valida y descuenta stock de un lote de líneas: todas o ninguna.
// Debe ejecutarse dentro de la unidad de trabajo; el stock se lee de las filas bloqueadas,
// nunca de lo que el cliente creía disponible.
type StockGuard struct{}

// Reserve bloquea los productos en orden ascendente de id, verifica cada línea y, solo si todas
// alcanzan, descuenta el stock. Devuelve los productos bloqueados con el stock ya descontado.
func (StockGuard) Reserve(ctx context.Context, products repository.ProductRepository, tenantID string, lines []StockLine) (map[string]*entity.Product, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError("items", "el carrito está vacío")
	}

	merged, order := mergeLines(lines)
	ids := make([]string, len(order))
	copy(ids, order)
	sort.Strings(ids)

	locked, err := products.LockForUpdate(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}

	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, domain.NewValidationError("product_id", "producto no encontrado: "+id)
		}
		if !p.IsActive {
			return nil, domain.NewValidationError("product_id", "producto inactivo: "+id)
		}
		if merged[id] > p.Stock {
			return nil, &domain.InsufficientStockError{ProductID: id, Requested: merged[id], Available: p.Stock}
		}
	}

	for _, id := range ids {
		if err := products.DecrementStock(ctx, tenantID, id, merged[id]); err != nil {
			return nil, err
		}
		byID[id].Stock -= merged[id]
	}
	return byID, nil
}

// mergeLines suma cantidades por producto conservando el orden de primera aparición.
func mergeLines(lines []StockLine) (map[string]int, []string) {
	merged := make(map[string]int, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, seen := merged[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		merged[l.ProductID] += l.Quantity
	}
	return merged, order
}
