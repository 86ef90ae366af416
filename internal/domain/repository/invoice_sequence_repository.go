package repository

import (
	"context"
	"time"
)

// InvoiceSequenceRepository consecutivo de facturas por tenant y día.
type InvoiceSequenceRepository interface {
	// Next incrementa y devuelve el consecutivo del día. Dentro de una transacción la fila
	// queda bloqueada hasta el commit, lo que serializa la emisión para el mismo tenant y día.
	Next(ctx context.Context, tenantID string, day time.Time) (int64, error)
}
