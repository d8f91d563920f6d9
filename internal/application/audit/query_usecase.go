package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

const (
	DefaultRecentHours = 24
	MaxRecentHours     = 24 * MaxTrendDays
	MaxRecentEntries   = 50
	DefaultTrendDays   = 7
	MaxTrendDays       = 365
)

// QueryUseCase consultas de solo lectura sobre el historial del usuario.
type QueryUseCase struct {
	repo  repository.AuditRepository
	clock func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.AuditRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo, clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (uc *QueryUseCase) WithClock(clock func() time.Time) *QueryUseCase {
	c := *uc
	c.clock = clock
	return &c
}

// List página de entradas filtradas, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, userID string, q dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	filter := entity.AuditFilter{UserID: userID, From: q.From, To: q.To}
	if q.EntityType != "" {
		filter.EntityType = strings.ToUpper(q.EntityType)
		if !entity.IsValidAuditEntityType(filter.EntityType) {
			return nil, domain.NewValidationError("entityType", fmt.Sprintf("tipo de entidad inválido: %s", q.EntityType))
		}
	}
	if q.Operation != "" {
		filter.Operation = strings.ToUpper(q.Operation)
		if !entity.IsValidAuditOperation(filter.Operation) {
			return nil, domain.NewValidationError("operation", fmt.Sprintf("operación inválida: %s", q.Operation))
		}
	}
	if q.EntityID != "" {
		if _, err := uuid.Parse(q.EntityID); err != nil {
			return nil, domain.NewValidationError("entityId", "debe ser un UUID")
		}
		filter.EntityID = q.EntityID
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, domain.NewValidationError("from", "debe ser anterior a to")
	}

	page := q.PageRequest
	page.Normalize()
	filter.Limit = page.Size
	filter.Offset = page.Page * page.Size

	entries, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.AuditLogListResponse{
		Items: ToResponses(entries),
		Page:  dto.NewPageResponse(page, total),
	}, nil
}

// EntityHistory todas las entradas del usuario sobre una entidad.
func (uc *QueryUseCase) EntityHistory(ctx context.Context, userID, entityID string) ([]dto.AuditLogResponse, error) {
	if _, err := uuid.Parse(entityID); err != nil {
		return nil, domain.NewValidationError("entityId", "debe ser un UUID")
	}
	entries, _, err := uc.repo.List(ctx, entity.AuditFilter{UserID: userID, EntityID: entityID})
	if err != nil {
		return nil, err
	}
	return ToResponses(entries), nil
}

// Summary conteos del historial completo del usuario.
func (uc *QueryUseCase) Summary(ctx context.Context, userID string) (*dto.AuditSummaryResponse, error) {
	byOp, err := uc.repo.CountByOperation(ctx, userID)
	if err != nil {
		return nil, err
	}
	byEntity, err := uc.repo.CountByEntityType(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byOp {
		total += n
	}
	return &dto.AuditSummaryResponse{
		CreateOperations: byOp[entity.AuditOpCreate],
		UpdateOperations: byOp[entity.AuditOpUpdate],
		DeleteOperations: byOp[entity.AuditOpDelete],
		StockOperations:  byOp[entity.AuditOpStockAdd] + byOp[entity.AuditOpStockRemove] + byOp[entity.AuditOpStockUpdate],
		SpaceLogs:        byEntity[entity.AuditEntitySpace],
		ProductLogs:      byEntity[entity.AuditEntityProduct],
		UserLogs:         byEntity[entity.AuditEntityUser],
		TotalLogs:        total,
	}, nil
}

// Recent entradas de las últimas hours horas (por defecto 24, tope de un año), como máximo 50.
func (uc *QueryUseCase) Recent(ctx context.Context, userID string, hours int) (*dto.AuditRecentResponse, error) {
	if hours <= 0 {
		hours = DefaultRecentHours
	}
	hours = min(hours, MaxRecentHours)
	since := uc.clock().Add(-time.Duration(hours) * time.Hour)
	entries, err := uc.repo.ListSince(ctx, userID, since, MaxRecentEntries)
	if err != nil {
		return nil, err
	}
	items := ToResponses(entries)
	return &dto.AuditRecentResponse{Hours: hours, Items: items, Count: len(items)}, nil
}

// Trends actividad diaria de los últimos days días (por defecto 7).
func (uc *QueryUseCase) Trends(ctx context.Context, userID string, days int) (*dto.AuditTrendsResponse, error) {
	days = ClampDays(days)
	now := uc.clock()
	entries, err := uc.repo.ListSince(ctx, userID, WindowStart(now, days), 0)
	if err != nil {
		return nil, err
	}
	trends := BuildTrends(entries, days, now)
	return &trends, nil
}

// BuildTrends agrega entradas por día (YYYY-MM-DD, UTC) y por operación.
// Todos los días de la ventana aparecen, con 0 si no hubo actividad.
func BuildTrends(entries []*entity.AuditEntry, days int, now time.Time) dto.AuditTrendsResponse {
	daily := make(map[string]int, days)
	start := WindowStart(now, days)
	for i := 0; i < days; i++ {
		daily[start.AddDate(0, 0, i).Format(time.DateOnly)] = 0
	}
	ops := make(map[string]int)
	for _, e := range entries {
		daily[e.Timestamp.UTC().Format(time.DateOnly)]++
		ops[e.Operation]++
	}
	return dto.AuditTrendsResponse{
		DailyActivity:      daily,
		OperationBreakdown: ops,
		TotalActivities:    len(entries),
		Period:             fmt.Sprintf("%d days", days),
	}
}

// ClampDays ajusta la ventana de días a [1, MaxTrendDays]; 0 o negativo = DefaultTrendDays.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultTrendDays
	case days > MaxTrendDays:
		return MaxTrendDays
	}
	return days
}

// WindowStart medianoche UTC del primer día de una ventana de days días que termina hoy.
func WindowStart(now time.Time, days int) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(days - 1))
}

// ToResponses convierte entradas a DTO con details parseado.
func ToResponses(entries []*entity.AuditEntry) []dto.AuditLogResponse {
	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditLogResponse{
			ID:                e.ID,
			EntityType:        e.EntityType,
			EntityID:          e.EntityID,
			Operation:         e.Operation,
			Details:           ParseDetails(e.Details),
			Timestamp:         e.Timestamp,
			IPAddress:         e.IPAddress,
			UserAgent:         e.UserAgent,
			RelatedEntityID:   e.RelatedEntityID,
			RelatedEntityType: e.RelatedEntityType,
		})
	}
	return out
}
