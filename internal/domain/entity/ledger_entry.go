package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro financiero.
const (
	LedgerIncome  = "income"
	LedgerExpense = "expense"
)

// Categorías por defecto.
const (
	LedgerCategorySales   = "Sales"
	LedgerCategoryGeneral = "General"
)

// LedgerEntry movimiento del libro financiero. ReferenceID apunta a la venta que lo originó, si aplica.
type LedgerEntry struct {
	ID          string
	TenantID    string
	Type        string
	Amount      decimal.Decimal
	Description string
	Category    string
	ReferenceID string
	CreatedBy   string
	CreatedAt   time.Time
}
