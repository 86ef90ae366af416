package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
)

// SaleHandler expone el motor de ventas.
type SaleHandler struct {
	record *sales.RecordSaleUseCase
	query  *sales.SaleQueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(record *sales.RecordSaleUseCase, query *sales.SaleQueryUseCase) *SaleHandler {
	return &SaleHandler{record: record, query: query}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida el carrito, descuenta stock, asigna número de factura y registra el ingreso en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "Carrito y datos de pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o CONCURRENCY_CONFLICT"
// @Failure      503   {object}  dto.ErrorResponse  "NUMBERING_EXHAUSTED o PERSISTENCE_FAILURE"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	user := CurrentUser(c)
	out, err := h.record.RecordSale(c.UserContext(), user.TenantID, user.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return respondError(c, err)
	}
	out, err := h.query.List(c.UserContext(), GetTenantID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return respondError(c, domain.ErrNotFound)
	}
	out, err := h.query.Get(c.UserContext(), GetTenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
