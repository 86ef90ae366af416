package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// classify
// ─────────────────────────────────────────────────────────────────────────────

func TestClassify_ConflictosDeConcurrencia(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
		t.Run(code, func(t *testing.T) {
			err := classify("record sale", fmt.Errorf("lock products: %w", &pgconn.PgError{Code: code, Message: "x"}))
			assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
			assert.NotErrorIs(t, err, domain.ErrPersistence)
		})
	}
}

func TestClassify_FacturaDuplicadaEsConflicto(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: invoiceUniqueConstraint}
	err := classify("record sale", fmt.Errorf("insert sale: %w", pgErr))
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestClassify_OtroUniqueEsPersistencia(t *testing.T) {
	pgErr := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "sale_items_pkey"}
	err := classify("record sale", pgErr)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	var pe *domain.PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "record sale", pe.Op)
	assert.True(t, isUniqueViolation(err))
}

func TestClassify_ErroresDeDominioPasanSinCambios(t *testing.T) {
	stock := &domain.InsufficientStockError{ProductID: "p1", Requested: 3, Available: 1}
	assert.Same(t, stock, classify("x", stock))

	validation := domain.NewValidationError("items", "vacío")
	assert.Equal(t, validation, classify("x", validation))

	exhausted := fmt.Errorf("%w: 5 intentos", domain.ErrNumberingExhausted)
	assert.Equal(t, exhausted, classify("x", exhausted))
}

func TestClassify_ErrorGenericoEsPersistencia(t *testing.T) {
	err := classify("commit transaction", errors.New("conn closed"))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NoError(t, classify("x", nil))
}

// ─────────────────────────────────────────────────────────────────────────────
// circuit breaker
// ─────────────────────────────────────────────────────────────────────────────

func TestBreaker_SoloFallasDePersistenciaLoAbren(t *testing.T) {
	cb := newBreaker("test", logger.Nop())

	for i := 0; i < 10; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, &domain.InsufficientStockError{ProductID: "p1", Requested: 2, Available: 1}
		})
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State(), "errores de negocio no cuentan")

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, &domain.PersistenceError{Op: "commit", Err: errors.New("down")}
		})
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) { return nil, nil })
	err = breakerError(err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerError_PasaOtrosErrores(t *testing.T) {
	conflict := fmt.Errorf("%w: x", domain.ErrConcurrencyConflict)
	assert.Equal(t, conflict, breakerError(conflict))
	assert.NoError(t, breakerError(nil))
}
