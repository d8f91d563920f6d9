package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

const reportContentType = "application/pdf"

// ReportUseCase genera el reporte PDF de inventario y opcionalmente lo archiva.
type ReportUseCase struct {
	dashboard *DashboardUseCase
	users     repository.UserRepository
	renderer  ports.ReportRenderer
	archive   ports.ReportArchive // nil = no se archiva
	log       *logger.Logger
}

// NewReportUseCase construye el caso de uso. archive puede ser nil.
func NewReportUseCase(
	dashboard *DashboardUseCase,
	users repository.UserRepository,
	renderer ports.ReportRenderer,
	archive ports.ReportArchive,
	log *logger.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		dashboard: dashboard,
		users:     users,
		renderer:  renderer,
		archive:   archive,
		log:       log.Named("report"),
	}
}

// InventoryReport construye los datos, genera el PDF y lo archiva si hay almacenamiento configurado.
// Un fallo al archivar se registra pero no impide devolver el reporte.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, ownerID string) (*dto.ReportResult, error) {
	owner, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrUserNotFound
	}
	snap, err := uc.dashboard.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := uc.dashboard.clock()
	report := &dto.InventoryReport{
		OwnerName:   owner.Name,
		OwnerEmail:  owner.Email,
		GeneratedAt: now,
		Overview:    overviewOf(snap),
		Spaces:      reportSpaces(snap),
	}
	content, err := uc.renderer.RenderInventoryReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}

	result := &dto.ReportResult{
		FileName: fmt.Sprintf("inventory-report-%s.pdf", now.Format("20060102-150405")),
		Content:  content,
	}
	if uc.archive != nil {
		key := fmt.Sprintf("reports/%s/%s", ownerID, result.FileName)
		location, err := uc.archive.Put(ctx, key, content, reportContentType)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", ownerID).Str("key", key).Msg("no se pudo archivar el reporte")
		} else {
			result.Location = location
		}
	}
	return result, nil
}

func reportSpaces(snap *snapshot) []dto.InventoryReportSpace {
	bySpace := make(map[string][]*entity.Product, len(snap.spaces))
	for _, p := range snap.products {
		bySpace[p.SpaceID] = append(bySpace[p.SpaceID], p)
	}
	out := make([]dto.InventoryReportSpace, 0, len(snap.spaces))
	for _, s := range snap.spaces {
		section := dto.InventoryReportSpace{Name: s.Name, Value: decimal.Zero}
		for _, p := range bySpace[s.ID] {
			section.Value = section.Value.Add(p.Value())
			section.Products = append(section.Products, *usecase.ToProductResponse(p))
		}
		section.Value = section.Value.Round(2)
		out = append(out, section)
	}
	return out
}
