// Package sales contiene el motor de ventas: valida el carrito, descuenta stock, emite el
// número de factura, persiste la venta y su asiento contable en una sola transacción.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/cart"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/pos-api/internal/application/sales"

// Options parámetros del motor.
type Options struct {
	InvoicePrefix      string
	InvoiceMaxAttempts int
	ConflictMaxRetries int // reintentos completos ante domain.ErrConcurrencyConflict
	Location           *time.Location
	TracerProvider     trace.TracerProvider // nil = proveedor global de otel
	// NewBackOff permite ajustar la espera entre reintentos (tests). nil = exponencial por defecto.
	NewBackOff func() backoff.BackOff
}

// RecordSaleUseCase registra ventas de forma atómica.
type RecordSaleUseCase struct {
	tx         SaleTxRunner
	catalog    repository.ProductRepository
	numbering  *InvoiceNumbering
	guard      StockGuard
	poster     LedgerPoster
	stats      StatsInvalidator
	log        *logger.Logger
	tracer     trace.Tracer
	maxRetries int
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

// NewRecordSaleUseCase construye el caso de uso. catalog se usa solo para validar antes de abrir
// la transacción; stats puede ser nil.
func NewRecordSaleUseCase(
	tx SaleTxRunner,
	catalog repository.ProductRepository,
	stats StatsInvalidator,
	log *logger.Logger,
	opts Options,
) *RecordSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	nb := opts.NewBackOff
	if nb == nil {
		nb = defaultBackOff
	}
	if opts.ConflictMaxRetries < 0 {
		opts.ConflictMaxRetries = 0
	}
	return &RecordSaleUseCase{
		tx:         tx,
		catalog:    catalog,
		numbering:  NewInvoiceNumbering(opts.InvoicePrefix, opts.InvoiceMaxAttempts, opts.Location, log),
		stats:      stats,
		log:        log,
		tracer:     tp.Tracer(tracerName),
		maxRetries: opts.ConflictMaxRetries,
		newBackOff: nb,
		now:        time.Now,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 3 * time.Second
	b.Reset()
	return b
}

// preparedSale venta validada y normalizada, lista para la transacción.
type preparedSale struct {
	tenantID      string
	actorID       string
	cart          cart.Cart
	discount      decimal.Decimal
	paymentMethod string
	paymentStatus string
	customerName  string
	customerPhone string
	notes         string
}

// RecordSale valida el carrito y registra la venta completa en una unidad de trabajo:
//  1. Stock Guard: bloqueo, verificación y descuento de stock
//  2. Numeración de factura
//  3. Cabecera y líneas
//  4. Asiento income en el libro financiero
//
// Cualquier fallo revierte todo. Ante domain.ErrConcurrencyConflict la operación se reintenta
// completa con backoff exponencial hasta ConflictMaxRetries veces.
func (uc *RecordSaleUseCase) RecordSale(ctx context.Context, tenantID, actorUserID string, in dto.RecordSaleRequest) (out *dto.SaleResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "sales.RecordSale", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.Int("sale.lines", len(in.Items)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := uc.prepare(ctx, tenantID, actorUserID, in)
	if err != nil {
		return nil, err
	}

	attempt := 0
	var lastConflict error
	op := func() error {
		attempt++
		res, err := uc.execute(ctx, p)
		if err == nil {
			out = res
			return nil
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			lastConflict = err
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Int("attempt", attempt).Msg("conflicto de concurrencia al registrar venta")
			return err
		}
		return backoff.Permanent(err)
	}
	b := backoff.WithContext(backoff.WithMaxRetries(uc.newBackOff(), uint64(uc.maxRetries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		// Con el contexto cancelado entre reintentos backoff devuelve ctx.Err(); el error
		// reportado sigue siendo el conflicto que disparó el reintento.
		if lastConflict != nil && !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, fmt.Errorf("%w (reintento interrumpido: %v)", lastConflict, err)
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sale.id", out.ID),
		attribute.String("sale.invoice_number", out.InvoiceNumber),
		attribute.Int("sale.attempts", attempt),
	)

	if uc.stats != nil {
		if err := uc.stats.Invalidate(ctx, tenantID); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar caché de estadísticas")
		}
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("sale_id", out.ID).
		Str("invoice_number", out.InvoiceNumber).
		Str("final_amount", out.FinalAmount.StringFixed(2)).
		Int("attempts", attempt).
		Msg("venta registrada")
	return out, nil
}

// prepare valida y normaliza la entrada antes de abrir cualquier transacción.
func (uc *RecordSaleUseCase) prepare(ctx context.Context, tenantID, actorUserID string, in dto.RecordSaleRequest) (*preparedSale, error) {
	if tenantID == "" || actorUserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "el carrito está vacío")
	}

	lines := make([]cart.Line, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, cart.Line{ProductID: strings.TrimSpace(it.ProductID), UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	c, err := cart.FromLines(lines...)
	if err != nil {
		return nil, err
	}

	for _, l := range c.Lines() {
		if _, err := uuid.Parse(l.ProductID); err != nil {
			return nil, domain.NewValidationError("product_id", "identificador de producto inválido: "+l.ProductID)
		}
		product, err := uc.catalog.GetByID(ctx, tenantID, l.ProductID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "get product", Err: err}
		}
		if product == nil {
			return nil, domain.NewValidationError("product_id", "producto no encontrado: "+l.ProductID)
		}
		if !product.IsActive {
			return nil, domain.NewValidationError("product_id", "producto inactivo: "+l.ProductID)
		}
		switch {
		case l.UnitPrice.IsZero():
			c = c.WithPrice(l.ProductID, product.SellPrice)
		case !l.UnitPrice.Equal(product.SellPrice):
			return nil, domain.NewValidationError("unit_price", fmt.Sprintf(
				"el precio %s no coincide con el precio vigente %s de %s",
				l.UnitPrice.StringFixed(2), product.SellPrice.StringFixed(2), l.ProductID))
		}
	}

	discount := in.DiscountAmount
	if discount.IsNegative() {
		return nil, domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	if !discount.Equal(discount.Round(2)) {
		return nil, domain.NewValidationError("discount_amount", "admite como máximo dos decimales")
	}
	if discount.GreaterThan(c.Total()) {
		return nil, domain.NewValidationError("discount_amount", "no puede superar el total")
	}

	method, err := normalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	status, err := normalizePaymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &preparedSale{
		tenantID:      tenantID,
		actorID:       actorUserID,
		cart:          c,
		discount:      discount,
		paymentMethod: method,
		paymentStatus: status,
		customerName:  strings.TrimSpace(in.CustomerName),
		customerPhone: strings.TrimSpace(in.CustomerPhone),
		notes:         strings.TrimSpace(in.Notes),
	}, nil
}

// execute corre una unidad de trabajo completa.
func (uc *RecordSaleUseCase) execute(ctx context.Context, p *preparedSale) (*dto.SaleResponse, error) {
	var (
		sale  *entity.Sale
		items []*entity.SaleItem
	)
	err := uc.tx.RunSale(ctx, p.tenantID, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		ledgerRepo repository.LedgerRepository,
		seqRepo repository.InvoiceSequenceRepository,
	) error {
		// Reinicio por si la unidad de trabajo se reintenta.
		sale, items = nil, nil

		stockLines := make([]StockLine, 0, p.cart.Len())
		for _, l := range p.cart.Lines() {
			stockLines = append(stockLines, StockLine{ProductID: l.ProductID, Quantity: l.Quantity})
		}
		stepCtx, span := uc.tracer.Start(ctx, "sales.StockGuard")
		locked, err := uc.guard.Reserve(stepCtx, productRepo, p.tenantID, stockLines)
		span.End()
		if err != nil {
			return err
		}
		for _, l := range p.cart.Lines() {
			if !locked[l.ProductID].SellPrice.Equal(l.UnitPrice) {
				return domain.NewValidationError("unit_price", "el precio de "+l.ProductID+" cambió, actualice el carrito")
			}
		}

		stepCtx, span = uc.tracer.Start(ctx, "sales.InvoiceNumbering")
		number, err := uc.numbering.Next(stepCtx, seqRepo, saleRepo, p.tenantID)
		span.End()
		if err != nil {
			return err
		}

		now := uc.now().UTC()
		total := p.cart.Total()
		sale = &entity.Sale{
			ID:             uuid.New().String(),
			TenantID:       p.tenantID,
			InvoiceNumber:  number,
			CustomerName:   p.customerName,
			CustomerPhone:  p.customerPhone,
			Notes:          p.notes,
			TotalAmount:    total,
			DiscountAmount: p.discount,
			FinalAmount:    total.Sub(p.discount),
			PaymentMethod:  p.paymentMethod,
			PaymentStatus:  p.paymentStatus,
			CreatedBy:      p.actorID,
			CreatedAt:      now,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		items = make([]*entity.SaleItem, 0, p.cart.Len())
		for _, l := range p.cart.Lines() {
			product := locked[l.ProductID]
			items = append(items, &entity.SaleItem{
				ID:          uuid.New().String(),
				TenantID:    p.tenantID,
				SaleID:      sale.ID,
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TotalPrice:  l.Subtotal(),
				ProductName: product.Name,
				ProductSKU:  product.SKU,
			})
		}
		if err := saleRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		stepCtx, span = uc.tracer.Start(ctx, "sales.LedgerPoster")
		_, err = uc.poster.PostSale(stepCtx, ledgerRepo, sale)
		span.End()
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func normalizePaymentMethod(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "":
		return entity.PaymentCash, nil
	case "e-wallet":
		return entity.PaymentEWallet, nil
	}
	if !entity.IsValidPaymentMethod(m) {
		return "", domain.NewValidationError("payment_method", "debe ser cash, transfer, card o ewallet")
	}
	return m, nil
}

func normalizePaymentStatus(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return entity.PaymentStatusPaid, nil
	case entity.PaymentStatusCancelled:
		return "", domain.NewValidationError("payment_status", "una venta no puede registrarse cancelada")
	}
	if !entity.IsValidPaymentStatus(s) {
		return "", domain.NewValidationError("payment_status", "debe ser paid o pending")
	}
	return s, nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:             s.ID,
		TenantID:       s.TenantID,
		InvoiceNumber:  s.InvoiceNumber,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		Notes:          s.Notes,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		FinalAmount:    s.FinalAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  s.PaymentStatus,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		Items:          make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return out
}
