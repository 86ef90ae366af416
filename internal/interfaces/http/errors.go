package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

// Códigos de error de la API.
const (
	CodeValidation          = "VALIDATION"
	CodeInvalidBody         = "INVALID_BODY"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeNumberingExhausted  = "NUMBERING_EXHAUSTED"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL"
)

// respondError traduce un error de la capa de aplicación a status HTTP + ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		validationErr *domain.ValidationError
		stockErr      *domain.InsufficientStockError
	)
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"}
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: CodeValidation, Message: validationErr.Error(),
			Details: fiber.Map{"field": validationErr.Field},
		}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: CodeInsufficientStock, Message: stockErr.Error(),
			Details: dto.InsufficientStockDetails{
				ProductID: stockErr.ProductID, Requested: stockErr.Requested, Available: stockErr.Available,
			},
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrNumberingExhausted):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: CodeNumberingExhausted, Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConcurrencyConflict, Message: domain.ErrConcurrencyConflict.Error()}
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: CodePersistenceFailure, Message: "no fue posible guardar los datos, intente más tarde"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno"}
	}
}

// ErrorHandler manejador global de Fiber: errores no capturados por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
