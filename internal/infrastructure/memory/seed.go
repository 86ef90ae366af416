package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// DemoTenantID tenant que carga SeedDemo.
const DemoTenantID = "00000000-0000-0000-0000-0000000000d1"

// SeedDemo carga un catálogo pequeño para probar el POS en local.
func (s *Store) SeedDemo(ctx context.Context, tenantID string) ([]*entity.Product, error) {
	now := time.Now().UTC()
	demo := []struct {
		name, sku string
		price     int64
		stock     int
	}{
		{"Kopi Susu", "BEV-001", 18000, 40},
		{"Teh Manis", "BEV-002", 8000, 60},
		{"Roti Bakar", "FOD-001", 15000, 25},
		{"Air Mineral", "BEV-003", 5000, 100},
	}
	repo := s.Products()
	out := make([]*entity.Product, 0, len(demo))
	for _, d := range demo {
		p := &entity.Product{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Name:      d.name,
			SKU:       d.sku,
			BuyPrice:  decimal.NewFromInt(d.price).Mul(decimal.NewFromFloat(0.6)).Round(0),
			SellPrice: decimal.NewFromInt(d.price),
			Stock:     d.stock,
			MinStock:  5,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
