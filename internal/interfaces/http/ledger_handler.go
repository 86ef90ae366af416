package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ledger"
)

// LedgerHandler libro financiero: movimientos manuales y consulta.
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar ingreso o egreso manual
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLedgerEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ledger [post]
func (h *LedgerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLedgerEntryRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	user := CurrentUser(c)
	out, err := h.uc.CreateEntry(c.UserContext(), user.TenantID, user.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "income | expense"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.LedgerListResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	var in dto.LedgerFilterRequest
	if err := parseQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
