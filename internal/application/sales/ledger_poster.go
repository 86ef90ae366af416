package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// LedgerPoster registra el ingreso correspondiente a una venta dentro de la misma unidad de trabajo.
// Si falla, la venta completa se revierte.
type LedgerPoster struct{}

// PostSale agrega una entrada income por el FinalAmount de la venta con referencia a su ID.
func (LedgerPoster) PostSale(ctx context.Context, ledgerRepo repository.LedgerRepository, sale *entity.Sale) (*entity.LedgerEntry, error) {
	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		TenantID:    sale.TenantID,
		Type:        entity.LedgerIncome,
		Amount:      sale.FinalAmount,
		Description: "Venta - " + sale.InvoiceNumber,
		Category:    entity.LedgerCategorySales,
		ReferenceID: sale.ID,
		CreatedBy:   sale.CreatedBy,
		CreatedAt:   sale.CreatedAt,
	}
	if err := ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
