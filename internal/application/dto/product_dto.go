package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	SKU         string          `json:"sku" validate:"omitempty,max=100"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=100"`
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	Description string          `json:"description"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Stock       int             `json:"stock" validate:"min=0"`
	MinStock    int             `json:"min_stock" validate:"min=0"`
}

// ProductFilterRequest query string de GET /api/products.
type ProductFilterRequest struct {
	Category string `query:"category" validate:"omitempty,uuid"`
	Search   string `query:"search"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
