package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
	PaymentEWallet  = "ewallet"
)

// Estados de pago.
const (
	PaymentStatusPaid      = "paid"
	PaymentStatusPending   = "pending"
	PaymentStatusCancelled = "cancelled"
)

// Sale cabecera de venta. Inmutable una vez confirmada.
// FinalAmount = TotalAmount - DiscountAmount.
type Sale struct {
	ID             string
	TenantID       string
	InvoiceNumber  string
	CustomerName   string
	CustomerPhone  string
	Notes          string
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentMethod  string
	PaymentStatus  string
	CreatedBy      string
	CreatedAt      time.Time
}

// SaleItem línea de venta con el precio unitario congelado al momento de la venta.
type SaleItem struct {
	ID         string
	TenantID   string
	SaleID     string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal

	// Datos de presentación del producto (solo lectura, vía join).
	ProductName string
	ProductSKU  string
}

// IsValidPaymentMethod indica si m es un método de pago conocido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentEWallet:
		return true
	}
	return false
}

// IsValidPaymentStatus indica si s es un estado de pago conocido.
func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusCancelled:
		return true
	}
	return false
}
