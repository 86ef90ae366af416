package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest body para POST /api/sales.
// PaymentMethod: cash (defecto), transfer, card, ewallet. PaymentStatus: paid (defecto) o pending.
type RecordSaleRequest struct {
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName   string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone  string            `json:"customer_phone" validate:"omitempty,max=50"`
	Notes          string            `json:"notes" validate:"omitempty,max=1000"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentStatus  string            `json:"payment_status"`
}

// SaleItemRequest línea del carrito. UnitPrice en cero toma el precio vigente del catálogo.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleResponse venta confirmada con sus líneas.
type SaleResponse struct {
	ID             string             `json:"id"`
	TenantID       string             `json:"tenant_id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	Items          []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea con datos de presentación del producto.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// InsufficientStockDetails detalle del error INSUFFICIENT_STOCK.
type InsufficientStockDetails struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
