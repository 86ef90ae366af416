package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible de un tenant. Stock es la existencia única del tenant (sin bodegas).
type Product struct {
	ID          string
	TenantID    string
	CategoryID  string // opcional
	Name        string
	Description string
	SKU         string
	Barcode     string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Stock       int
	MinStock    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock indica si la existencia está en o por debajo del mínimo configurado.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
