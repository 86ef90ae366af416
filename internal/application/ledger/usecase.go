// Package ledger casos de uso del libro financiero fuera del flujo de ventas:
// movimientos manuales y consulta.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// StatsInvalidator descarta estadísticas cacheadas del tenant.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// LedgerUseCase movimientos manuales de ingreso/egreso y listado.
type LedgerUseCase struct {
	repo  repository.LedgerRepository
	stats StatsInvalidator
	log   *logger.Logger
	now   func() time.Time
}

// NewLedgerUseCase construye el caso de uso. stats puede ser nil.
func NewLedgerUseCase(repo repository.LedgerRepository, stats StatsInvalidator, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{repo: repo, stats: stats, log: log, now: time.Now}
}

// CreateEntry registra un movimiento manual. Categoría por defecto "General".
func (uc *LedgerUseCase) CreateEntry(ctx context.Context, tenantID, actorID string, in dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	if tenantID == "" || actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ != entity.LedgerIncome && typ != entity.LedgerExpense {
		return nil, domain.NewValidationError("type", "debe ser income o expense")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "debe ser mayor que cero")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.NewValidationError("description", "es requerida")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = entity.LedgerCategoryGeneral
	}

	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Type:        typ,
		Amount:      in.Amount,
		Description: desc,
		Category:    category,
		CreatedBy:   actorID,
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	if uc.stats != nil {
		if err := uc.stats.Invalidate(ctx, tenantID); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar caché de estadísticas")
		}
	}
	return toEntryResponse(entry), nil
}

// List movimientos más recientes primero, opcionalmente filtrados por tipo.
func (uc *LedgerUseCase) List(ctx context.Context, tenantID string, f dto.LedgerFilterRequest) (*dto.LedgerListResponse, error) {
	f.DefaultPage()
	if f.Type != "" && f.Type != entity.LedgerIncome && f.Type != entity.LedgerExpense {
		return nil, domain.NewValidationError("type", "debe ser income o expense")
	}
	list, err := uc.repo.List(ctx, tenantID, repository.LedgerFilter{Type: f.Type, Limit: f.Limit, Offset: f.Offset})
	if err != nil {
		return nil, err
	}
	out := &dto.LedgerListResponse{
		Items: make([]dto.LedgerEntryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}
	for _, e := range list {
		out.Items = append(out.Items, *toEntryResponse(e))
	}
	return out, nil
}

func toEntryResponse(e *entity.LedgerEntry) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		ID:          e.ID,
		Type:        e.Type,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		ReferenceID: e.ReferenceID,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}
