package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro financiero en memoria.
type LedgerRepo struct {
	s  *Store
	tx *txState
}

// Create agrega la entrada (pendiente si hay unidad de trabajo).
func (r *LedgerRepo) Create(_ context.Context, entry *entity.LedgerEntry) error {
	if r.tx != nil {
		if err := r.tx.checkTenant(entry.TenantID); err != nil {
			return err
		}
		r.tx.ledger = append(r.tx.ledger, *entry)
		return nil
	}
	t := r.s.tenant(entry.TenantID)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ledger = append(t.ledger, *entry)
	return nil
}

// List más recientes primero.
func (r *LedgerRepo) List(_ context.Context, tenantID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	list := make([]*entity.LedgerEntry, 0, len(t.ledger))
	for i := len(t.ledger) - 1; i >= 0; i-- {
		e := t.ledger[i]
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		list = append(list, &e)
	}
	t.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, f.Limit, f.Offset), nil
}

// ListByReference entradas que apuntan a referenceID.
func (r *LedgerRepo) ListByReference(_ context.Context, tenantID, referenceID string) ([]*entity.LedgerEntry, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	var list []*entity.LedgerEntry
	for _, e := range t.ledger {
		if e.ReferenceID == referenceID {
			e := e
			list = append(list, &e)
		}
	}
	return list, nil
}

// Totals ingresos y egresos en [from, to).
func (r *LedgerRepo) Totals(_ context.Context, tenantID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	t := r.s.tenant(tenantID)
	t.mu.RLock()
	defer t.mu.RUnlock()
	income, expense := decimal.Zero, decimal.Zero
	for _, e := range t.ledger {
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		switch e.Type {
		case entity.LedgerIncome:
			income = income.Add(e.Amount)
		case entity.LedgerExpense:
			expense = expense.Add(e.Amount)
		}
	}
	return income, expense, nil
}
