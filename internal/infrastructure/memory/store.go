// Package memory implementa los puertos de persistencia en memoria: desarrollo local sin
// PostgreSQL y tests del motor de ventas.
//
// Cada tenant tiene su propio candado de unidad de trabajo: dos ventas del mismo tenant se
// serializan y tenants distintos no se bloquean entre sí. Las escrituras de una unidad de
// trabajo se acumulan en un txState y solo se aplican al confirmar, de modo que los lectores
// nunca ven una venta a medias.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ sales.SaleTxRunner = (*Store)(nil)

var errTxRequired = errors.New("memory: operación válida solo dentro de una unidad de trabajo")

// Store almacén en memoria multi-tenant.
type Store struct {
	mu      sync.Mutex
	tenants map[string]*tenantData
}

type tenantData struct {
	txMu sync.Mutex   // serializa unidades de trabajo del tenant
	mu   sync.RWMutex // protege los datos confirmados

	products  map[string]entity.Product
	sales     map[string]entity.Sale
	saleOrder []string
	invoices  map[string]string // invoice_number -> sale_id
	items     map[string][]entity.SaleItem
	ledger    []entity.LedgerEntry
	sequences map[string]int64 // YYYYMMDD -> último valor
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{tenants: make(map[string]*tenantData)}
}

func (s *Store) tenant(tenantID string) *tenantData {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		t = &tenantData{
			products:  make(map[string]entity.Product),
			sales:     make(map[string]entity.Sale),
			invoices:  make(map[string]string),
			items:     make(map[string][]entity.SaleItem),
			sequences: make(map[string]int64),
		}
		s.tenants[tenantID] = t
	}
	return t
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales repositorio de ventas fuera de transacción (lectura).
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Ledger repositorio del libro fuera de transacción.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

// RunSale ejecuta fn con repositorios atados a una unidad de trabajo del tenant.
func (s *Store) RunSale(ctx context.Context, tenantID string, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	ledgerRepo repository.LedgerRepository,
	seqRepo repository.InvoiceSequenceRepository,
) error) error {
	t := s.tenant(tenantID)
	if err := lockWithContext(ctx, &t.txMu); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	}
	defer t.txMu.Unlock()

	tx := newTxState(tenantID, t)
	if err := fn(&ProductRepo{s: s, tx: tx}, &SaleRepo{s: s, tx: tx}, &LedgerRepo{s: s, tx: tx}, &SequenceRepo{tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.PersistenceError{Op: "commit", Err: err}
	}
	return tx.commit()
}

// lockWithContext toma el mutex o abandona si el contexto termina antes.
func lockWithContext(ctx context.Context, mu *sync.Mutex) error {
	if mu.TryLock() {
		return nil
	}
	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
		return nil
	case <-ctx.Done():
		// El goroutine terminará tomando el candado; se libera en cuanto lo obtenga.
		go func() {
			<-acquired
			mu.Unlock()
		}()
		return ctx.Err()
	}
}

// txState cambios pendientes de una unidad de trabajo.
type txState struct {
	tenantID  string
	t         *tenantData
	products  map[string]entity.Product
	sales     []entity.Sale
	items     []entity.SaleItem
	ledger    []entity.LedgerEntry
	sequences map[string]int64
}

func newTxState(tenantID string, t *tenantData) *txState {
	return &txState{
		tenantID:  tenantID,
		t:         t,
		products:  make(map[string]entity.Product),
		sequences: make(map[string]int64),
	}
}

func (tx *txState) checkTenant(tenantID string) error {
	if tenantID != tx.tenantID {
		return fmt.Errorf("memory: tenant %q fuera de la unidad de trabajo de %q", tenantID, tx.tenantID)
	}
	return nil
}

// product devuelve la versión pendiente o la confirmada.
func (tx *txState) product(id string) (entity.Product, bool) {
	if p, ok := tx.products[id]; ok {
		return p, true
	}
	tx.t.mu.RLock()
	defer tx.t.mu.RUnlock()
	p, ok := tx.t.products[id]
	return p, ok
}

func (tx *txState) invoiceExists(number string) bool {
	for _, s := range tx.sales {
		if s.InvoiceNumber == number {
			return true
		}
	}
	tx.t.mu.RLock()
	defer tx.t.mu.RUnlock()
	_, ok := tx.t.invoices[number]
	return ok
}

func (tx *txState) commit() error {
	t := tx.t
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range tx.sales {
		if _, dup := t.invoices[s.InvoiceNumber]; dup {
			return fmt.Errorf("%w: número de factura %s duplicado", domain.ErrConcurrencyConflict, s.InvoiceNumber)
		}
	}
	for id, p := range tx.products {
		t.products[id] = p
	}
	for _, s := range tx.sales {
		t.sales[s.ID] = s
		t.saleOrder = append(t.saleOrder, s.ID)
		t.invoices[s.InvoiceNumber] = s.ID
	}
	for _, it := range tx.items {
		t.items[it.SaleID] = append(t.items[it.SaleID], it)
	}
	t.ledger = append(t.ledger, tx.ledger...)
	for day, v := range tx.sequences {
		t.sequences[day] = v
	}
	return nil
}
