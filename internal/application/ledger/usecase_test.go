package ledger_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/ledger"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const (
	tenantID = "tenant-1"
	actorID  = "user-1"
)

type countingInvalidator struct{ n atomic.Int32 }

func (c *countingInvalidator) Invalidate(context.Context, string) error {
	c.n.Add(1)
	return nil
}

func TestCreateEntry_CategoriaPorDefecto(t *testing.T) {
	store := memory.NewStore()
	inv := &countingInvalidator{}
	uc := ledger.NewLedgerUseCase(store.Ledger(), inv, nil)

	out, err := uc.CreateEntry(context.Background(), tenantID, actorID, dto.CreateLedgerEntryRequest{
		Type: "Expense", Amount: decimal.NewFromInt(150000), Description: "  Sewa toko  ",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LedgerExpense, out.Type)
	assert.Equal(t, entity.LedgerCategoryGeneral, out.Category)
	assert.Equal(t, "Sewa toko", out.Description)
	assert.Empty(t, out.ReferenceID)
	assert.Equal(t, int32(1), inv.n.Load())
}

func TestCreateEntry_Validaciones(t *testing.T) {
	uc := ledger.NewLedgerUseCase(memory.NewStore().Ledger(), nil, nil)
	cases := map[string]dto.CreateLedgerEntryRequest{
		"tipo inválido":   {Type: "transfer", Amount: decimal.NewFromInt(1), Description: "x"},
		"monto cero":      {Type: "income", Amount: decimal.Zero, Description: "x"},
		"monto negativo":  {Type: "income", Amount: decimal.NewFromInt(-5), Description: "x"},
		"sin descripción": {Type: "income", Amount: decimal.NewFromInt(5), Description: "  "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateEntry(context.Background(), tenantID, actorID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.CreateEntry(context.Background(), "", actorID, dto.CreateLedgerEntryRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestList_FiltraPorTipo(t *testing.T) {
	store := memory.NewStore()
	uc := ledger.NewLedgerUseCase(store.Ledger(), nil, nil)
	ctx := context.Background()

	for _, in := range []dto.CreateLedgerEntryRequest{
		{Type: "income", Amount: decimal.NewFromInt(10), Description: "a"},
		{Type: "expense", Amount: decimal.NewFromInt(3), Description: "b"},
		{Type: "income", Amount: decimal.NewFromInt(7), Description: "c"},
	} {
		_, err := uc.CreateEntry(ctx, tenantID, actorID, in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, tenantID, dto.LedgerFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	incomes, err := uc.List(ctx, tenantID, dto.LedgerFilterRequest{Type: "income"})
	require.NoError(t, err)
	assert.Len(t, incomes.Items, 2)

	_, err = uc.List(ctx, tenantID, dto.LedgerFilterRequest{Type: "other"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other, err := uc.List(ctx, "tenant-2", dto.LedgerFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}
