package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

const invoiceUniqueConstraint = "sales_tenant_invoice_key"

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// classify traduce errores de PostgreSQL a errores de dominio. Los errores de dominio
// (validación, stock, numeración) pasan sin cambios.
func classify(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s (%s)", domain.ErrConcurrencyConflict, pgErr.Message, pgErr.Code)
		case codeUniqueViolation:
			if pgErr.ConstraintName == invoiceUniqueConstraint {
				return fmt.Errorf("%w: número de factura tomado por otra transacción", domain.ErrConcurrencyConflict)
			}
		}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrInsufficientStock,
		domain.ErrNumberingExhausted,
		domain.ErrConcurrencyConflict,
		domain.ErrPersistence,
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
