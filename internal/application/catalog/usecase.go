// Package catalog lectura y alta mínima de productos para alimentar el POS.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. El stock solo cambia vía ventas.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto activo.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if in.SellPrice.IsNegative() || in.BuyPrice.IsNegative() {
		return nil, domain.NewValidationError("sell_price", "los precios no pueden ser negativos")
	}
	if in.Stock < 0 || in.MinStock < 0 {
		return nil, domain.NewValidationError("stock", "no puede ser negativo")
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		SKU:         strings.TrimSpace(in.SKU),
		Barcode:     strings.TrimSpace(in.Barcode),
		BuyPrice:    in.BuyPrice,
		SellPrice:   in.SellPrice,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List productos activos, filtrables por categoría y nombre.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, tenantID, repository.ProductFilter{
		CategoryID: strings.TrimSpace(in.Category),
		Search:     strings.TrimSpace(in.Search),
		OnlyActive: true,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		BuyPrice:    p.BuyPrice,
		SellPrice:   p.SellPrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.LowStock(),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
