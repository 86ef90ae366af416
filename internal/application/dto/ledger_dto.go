package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest body para POST /api/ledger (ingreso o egreso manual).
type CreateLedgerEntryRequest struct {
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required,max=500"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
}

// LedgerFilterRequest query string de GET /api/ledger.
type LedgerFilterRequest struct {
	Type string `query:"type" validate:"omitempty,oneof=income expense"`
	PageRequest
}

// LedgerEntryResponse movimiento del libro.
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ReferenceID string          `json:"reference_id,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerListResponse lista paginada del libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
