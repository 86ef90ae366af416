package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

func seedProduct(t *testing.T, s *memory.Store, tenantID, id, name string, stock int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, TenantID: tenantID, Name: name, SellPrice: decimal.NewFromInt(1000), Stock: stock, IsActive: true,
	}))
}

func TestRunSale_CommitHaceVisiblesLosCambios(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, tenantA, "p1", "Kopi", 5)
	ctx := context.Background()

	err := s.RunSale(ctx, tenantA, func(pr repository.ProductRepository, sr repository.SaleRepository, lr repository.LedgerRepository, _ repository.InvoiceSequenceRepository) error {
		require.NoError(t, pr.DecrementStock(ctx, tenantA, "p1", 2))
		require.NoError(t, sr.Create(ctx, &entity.Sale{ID: "s1", TenantID: tenantA, InvoiceNumber: "INV-1", PaymentStatus: entity.PaymentStatusPaid}))

		// Dentro de la transacción se ve el valor pendiente; fuera todavía no.
		inTx, _ := pr.GetByID(ctx, tenantA, "p1")
		assert.Equal(t, 3, inTx.Stock)
		outside, _ := s.Products().GetByID(ctx, tenantA, "p1")
		assert.Equal(t, 5, outside.Stock)
		return lr.Create(ctx, &entity.LedgerEntry{ID: "l1", TenantID: tenantA, Type: entity.LedgerIncome, ReferenceID: "s1"})
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, tenantA, "p1")
	assert.Equal(t, 3, p.Stock)
	sale, _ := s.Sales().GetByID(ctx, tenantA, "s1")
	require.NotNil(t, sale)
	exists, _ := s.Sales().InvoiceNumberExists(ctx, tenantA, "INV-1")
	assert.True(t, exists)
	entries, _ := s.Ledger().ListByReference(ctx, tenantA, "s1")
	assert.Len(t, entries, 1)
}

func TestRunSale_ErrorDescartaTodo(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, tenantA, "p1", "Kopi", 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunSale(ctx, tenantA, func(pr repository.ProductRepository, sr repository.SaleRepository, _ repository.LedgerRepository, seq repository.InvoiceSequenceRepository) error {
		require.NoError(t, pr.DecrementStock(ctx, tenantA, "p1", 5))
		_, err := seq.Next(ctx, tenantA, time.Now())
		require.NoError(t, err)
		require.NoError(t, sr.Create(ctx, &entity.Sale{ID: "s1", TenantID: tenantA, InvoiceNumber: "INV-1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, tenantA, "p1")
	assert.Equal(t, 5, p.Stock)
	sale, _ := s.Sales().GetByID(ctx, tenantA, "s1")
	assert.Nil(t, sale)

	// El consecutivo tampoco avanzó.
	err = s.RunSale(ctx, tenantA, func(_ repository.ProductRepository, _ repository.SaleRepository, _ repository.LedgerRepository, seq repository.InvoiceSequenceRepository) error {
		v, err := seq.Next(ctx, tenantA, time.Now())
		assert.Equal(t, int64(1), v)
		return err
	})
	require.NoError(t, err)
}

func TestRunSale_AisladoPorTenant(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, tenantA, "p1", "Kopi", 5)
	ctx := context.Background()

	err := s.RunSale(ctx, tenantB, func(pr repository.ProductRepository, _ repository.SaleRepository, _ repository.LedgerRepository, _ repository.InvoiceSequenceRepository) error {
		locked, err := pr.LockForUpdate(ctx, tenantB, []string{"p1"})
		require.NoError(t, err)
		assert.Empty(t, locked, "un tenant no ve productos de otro")

		_, err = pr.LockForUpdate(ctx, tenantA, []string{"p1"})
		assert.Error(t, err, "la unidad de trabajo de B no puede tocar datos de A")
		return nil
	})
	require.NoError(t, err)
}

func TestRunSale_ContextoCanceladoMientrasEspera(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	hold := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = s.RunSale(ctx, tenantA, func(repository.ProductRepository, repository.SaleRepository, repository.LedgerRepository, repository.InvoiceSequenceRepository) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := s.RunSale(waitCtx, tenantA, func(repository.ProductRepository, repository.SaleRepository, repository.LedgerRepository, repository.InvoiceSequenceRepository) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	close(hold)
}

func TestWritesFueraDeTransaccion(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	assert.Error(t, s.Products().DecrementStock(ctx, tenantA, "p1", 1))
	_, err := s.Products().LockForUpdate(ctx, tenantA, []string{"p1"})
	assert.Error(t, err)
	assert.Error(t, s.Sales().Create(ctx, &entity.Sale{ID: "s1", TenantID: tenantA}))
}

func TestProductList_FiltrosYBusqueda(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, s, tenantA, "p1", "Kopi Susu", 5)
	seedProduct(t, s, tenantA, "p2", "KOPI Hitam", 5)
	seedProduct(t, s, tenantA, "p3", "Teh", 5)
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p4", TenantID: tenantA, Name: "Kopi Lama", IsActive: false}))

	list, err := s.Products().List(ctx, tenantA, repository.ProductFilter{Search: "kopi", OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "KOPI Hitam", list[0].Name)

	n, err := s.Products().CountActive(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSeedDemo(t *testing.T) {
	s := memory.NewStore()
	products, err := s.SeedDemo(context.Background(), memory.DemoTenantID)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	n, _ := s.Products().CountActive(context.Background(), memory.DemoTenantID)
	assert.Equal(t, len(products), n)
}
