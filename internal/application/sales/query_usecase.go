package sales

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleQueryUseCase lectura de ventas confirmadas (historial del POS).
type SaleQueryUseCase struct {
	repo repository.SaleRepository
}

// NewSaleQueryUseCase construye el caso de uso.
func NewSaleQueryUseCase(repo repository.SaleRepository) *SaleQueryUseCase {
	return &SaleQueryUseCase{repo: repo}
}

// List ventas recientes del tenant con sus líneas.
func (uc *SaleQueryUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	itemsBySale := map[string][]*entity.SaleItem{}
	if len(ids) > 0 {
		if itemsBySale, err = uc.repo.ItemsBySales(ctx, tenantID, ids); err != nil {
			return nil, err
		}
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s, itemsBySale[s.ID]))
	}
	return out, nil
}

// Get venta por ID dentro del tenant. domain.ErrNotFound si no existe o es de otro tenant.
func (uc *SaleQueryUseCase) Get(ctx context.Context, tenantID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.ItemsBySales(ctx, tenantID, []string{id})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items[id]), nil
}
