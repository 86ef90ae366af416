package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InvoiceSequenceRepository = (*InvoiceSequenceRepo)(nil)

// InvoiceSequenceRepo consecutivo diario por tenant (tabla invoice_sequences).
type InvoiceSequenceRepo struct {
	q Querier
}

// NewInvoiceSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceSequenceRepository(q Querier) *InvoiceSequenceRepo {
	return &InvoiceSequenceRepo{q: q}
}

// Next hace upsert del contador del día y devuelve el nuevo valor. La fila queda bloqueada
// por la transacción en curso, así dos ventas del mismo tenant y día nunca leen el mismo valor.
func (r *InvoiceSequenceRepo) Next(ctx context.Context, tenantID string, day time.Time) (int64, error) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var v int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_sequences (tenant_id, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, day) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`,
		tenantID, d,
	).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return v, nil
}
