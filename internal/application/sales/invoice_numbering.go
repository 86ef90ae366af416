package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/invoice"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// InvoiceNumbering emite números <PREFIJO>-YYYYMMDD-NNNN a partir de un consecutivo por tenant y día.
// El consecutivo se incrementa dentro de la misma transacción de la venta; antes de devolver un
// candidato se verifica que no exista (p. ej. números cargados a mano o migrados) y se reintenta
// hasta maxAttempts veces.
type InvoiceNumbering struct {
	prefix      string
	maxAttempts int
	loc         *time.Location
	now         func() time.Time
	log         *logger.Logger
}

// NewInvoiceNumbering construye el emisor. maxAttempts < 1 se trata como 1.
func NewInvoiceNumbering(prefix string, maxAttempts int, loc *time.Location, log *logger.Logger) *InvoiceNumbering {
	if prefix == "" {
		prefix = invoice.DefaultPrefix
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceNumbering{prefix: prefix, maxAttempts: maxAttempts, loc: loc, now: time.Now, log: log}
}

// Next devuelve un número libre para el tenant o domain.ErrNumberingExhausted.
func (n *InvoiceNumbering) Next(ctx context.Context, seqRepo repository.InvoiceSequenceRepository, saleRepo repository.SaleRepository, tenantID string) (string, error) {
	day := invoice.Day(n.now(), n.loc)
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		seq, err := seqRepo.Next(ctx, tenantID, day)
		if err != nil {
			return "", err
		}
		candidate := invoice.Format(n.prefix, day, seq)
		exists, err := saleRepo.InvoiceNumberExists(ctx, tenantID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		n.log.Warn().
			Str("tenant_id", tenantID).
			Str("invoice_number", candidate).
			Int("attempt", attempt).
			Msg("número de factura ya usado, avanzando consecutivo")
	}
	return "", fmt.Errorf("%w: %d intentos", domain.ErrNumberingExhausted, n.maxAttempts)
}
