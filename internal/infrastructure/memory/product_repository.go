package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	s  *Store
	tx *txState
}

// Create agrega un producto.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if r.tx != nil {
		if err := r.tx.checkTenant(product.TenantID); err != nil {
			return err
		}
		r.tx.products[product.ID] = *product
		return nil
	}
	t := r.s.tenant(product.TenantID)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.products[product.ID]; ok {
		return fmt.Errorf("memory: producto %s ya existe", product.ID)
	}
	t.products[product.ID] = *product
	return nil
}

// GetByID devuelve nil, nil si no existe en el tenant.
func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	if r.tx != nil {
		if err := r.tx.checkTenant(tenantID); err != nil {
			return nil, err
		}
		p, ok := r.tx.product(id)
		if !ok {
			return nil, nil
		}
		return &p, nil
	}
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List filtra por categoría y nombre (sin distinguir mayúsculas), ordenado por nombre.
func (r *ProductRepo) List(_ context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	all := make([]entity.Product, 0, len(t.products))
	for _, p := range t.products {
		all = append(all, p)
	}
	t.mu.RUnlock()

	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))
	var list []*entity.Product
	for i := range all {
		p := all[i]
		if f.OnlyActive && !p.IsActive {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(fold.String(p.Name), search) {
			continue
		}
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return paginate(list, f.Limit, f.Offset), nil
}

// CountActive productos activos del tenant.
func (r *ProductRepo) CountActive(_ context.Context, tenantID string) (int, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, p := range t.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

// LockForUpdate el candado del tenant ya está tomado por la unidad de trabajo;
// devuelve copias en orden ascendente de id.
func (r *ProductRepo) LockForUpdate(_ context.Context, tenantID string, ids []string) ([]*entity.Product, error) {
	if r.tx == nil {
		return nil, errTxRequired
	}
	if err := r.tx.checkTenant(tenantID); err != nil {
		return nil, err
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]*entity.Product, 0, len(sorted))
	for _, id := range sorted {
		if p, ok := r.tx.product(id); ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

// DecrementStock descuenta qty; rechaza dejar stock negativo.
func (r *ProductRepo) DecrementStock(_ context.Context, tenantID, id string, qty int) error {
	if r.tx == nil {
		return errTxRequired
	}
	if err := r.tx.checkTenant(tenantID); err != nil {
		return err
	}
	p, ok := r.tx.product(id)
	if !ok {
		return fmt.Errorf("memory: producto %s no existe", id)
	}
	if p.Stock < qty {
		return fmt.Errorf("memory: stock negativo para %s", id)
	}
	p.Stock -= qty
	r.tx.products[id] = p
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
