package memory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InvoiceSequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivo de facturas; solo existe dentro de una unidad de trabajo.
type SequenceRepo struct {
	tx *txState
}

// Next incrementa el consecutivo del día.
func (r *SequenceRepo) Next(_ context.Context, tenantID string, day time.Time) (int64, error) {
	if err := r.tx.checkTenant(tenantID); err != nil {
		return 0, err
	}
	key := day.Format("20060102")
	v, ok := r.tx.sequences[key]
	if !ok {
		r.tx.t.mu.RLock()
		v = r.tx.t.sequences[key]
		r.tx.t.mu.RUnlock()
	}
	v++
	r.tx.sequences[key] = v
	return v, nil
}
