package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.NewValidationError("items", "vacío"), fiber.StatusBadRequest, CodeValidation},
		{"cuerpo", errInvalidBody, fiber.StatusBadRequest, CodeInvalidBody},
		{"stock", &domain.InsufficientStockError{ProductID: "p", Requested: 2, Available: 1}, fiber.StatusConflict, CodeInsufficientStock},
		{"numeración", fmt.Errorf("%w: 5 intentos", domain.ErrNumberingExhausted), fiber.StatusServiceUnavailable, CodeNumberingExhausted},
		{"conflicto", fmt.Errorf("%w: deadlock", domain.ErrConcurrencyConflict), fiber.StatusConflict, CodeConcurrencyConflict},
		{"persistencia", &domain.PersistenceError{Op: "commit", Err: errors.New("down")}, fiber.StatusServiceUnavailable, CodePersistenceFailure},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{"sin identidad", domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestMapError_PersistenciaNoFiltraDetalles(t *testing.T) {
	_, body := mapError(&domain.PersistenceError{Op: "commit", Err: errors.New("password authentication failed")})
	assert.NotContains(t, body.Message, "password")
}
