package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, tenant_id, type, amount, description, category, COALESCE(reference_id::text, ''),
	created_by, created_at`

// LedgerRepo libro financiero sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste un movimiento.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, tenant_id, type, amount, description, category, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.Type, e.Amount, e.Description, e.Category, nullIfEmpty(e.ReferenceID), e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List movimientos del tenant, más recientes primero. Type vacío = todos.
func (r *LedgerRepo) List(ctx context.Context, tenantID string, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, f.Type, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return collectLedger(rows)
}

// ListByReference movimientos asociados a una venta.
func (r *LedgerRepo) ListByReference(ctx context.Context, tenantID, referenceID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND reference_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by reference: %w", err)
	}
	return collectLedger(rows)
}

// Totals suma ingresos y egresos en [from, to).
func (r *LedgerRepo) Totals(ctx context.Context, tenantID string, from, to time.Time) (income, expense decimal.Decimal, err error) {
	err = r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM ledger_entries
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at < $3`,
		tenantID, from, to,
	).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("ledger totals: %w", err)
	}
	return income, expense, nil
}

func collectLedger(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Type, &e.Amount, &e.Description, &e.Category,
			&e.ReferenceID, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
