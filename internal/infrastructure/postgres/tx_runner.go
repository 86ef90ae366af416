package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

var _ sales.SaleTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
//
// La unidad de trabajo pasa por un circuit breaker: solo las fallas de persistencia
// cuentan para abrirlo; validaciones, falta de stock y conflictos no.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
	breaker     *gobreaker.CircuitBreaker
	log         *logger.Logger
}

// NewTxRunner construye el runner con el pool. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{
		pool:        pool,
		lockTimeout: lockTimeout,
		breaker:     newBreaker("postgres-sales", log),
		log:         log,
	}
}

func newBreaker(name string, log *logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrPersistence)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker cambió de estado")
		},
	})
}

// RunSale inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunSale(ctx context.Context, tenantID string, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	ledgerRepo repository.LedgerRepository,
	seqRepo repository.InvoiceSequenceRepository,
) error) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.runSale(ctx, fn)
	})
	return breakerError(err)
}

func (r *TxRunner) runSale(ctx context.Context, fn func(
	repository.ProductRepository,
	repository.SaleRepository,
	repository.LedgerRepository,
	repository.InvoiceSequenceRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET LOCAL no acepta parámetros posicionales.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	if err := fn(
		NewProductRepository(tx),
		NewSaleRepository(tx),
		NewLedgerRepository(tx),
		NewInvoiceSequenceRepository(tx),
	); err != nil {
		return classify("record sale", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// breakerError convierte el rechazo del breaker en falla de persistencia.
func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.PersistenceError{Op: "record sale", Err: err}
	}
	return err
}
