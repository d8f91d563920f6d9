package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// AuditHandler consulta del historial de auditoría del usuario.
type AuditHandler struct {
	uc  *audit.QueryUseCase
	log *logger.Logger
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase, log *logger.Logger) *AuditHandler {
	return &AuditHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Historial de auditoría paginado
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entityType  query  string  false  "SPACE, PRODUCT o USER"
// @Param        operation   query  string  false  "CREATE, UPDATE, DELETE, STOCK_ADD, STOCK_REMOVE, STOCK_UPDATE"
// @Param        entityId    query  string  false  "UUID de la entidad"
// @Param        startDate   query  string  false  "ISO-8601"
// @Param        endDate     query  string  false  "ISO-8601"
// @Param        page        query  int     false  "Página (desde 0)"  default(0)
// @Param        size        query  int     false  "Tamaño"            default(20)
// @Success      200  {object}  dto.AuditLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	q := dto.AuditLogQuery{
		EntityType:  c.Query("entityType"),
		Operation:   c.Query("operation"),
		EntityID:    c.Query("entityId"),
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 0), Size: c.QueryInt("size", dto.DefaultPageSize)},
	}
	var err error
	if q.From, err = parseTimeQuery(c, "startDate"); err != nil {
		return writeError(c, h.log, err)
	}
	if q.To, err = parseTimeQuery(c, "endDate"); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// EntityHistory godoc
// @Summary      Historial de una entidad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entityId  path  string  true  "UUID de la entidad"
// @Success      200  {array}   dto.AuditLogResponse
// @Router       /api/audit-logs/entity/{entityId} [get]
func (h *AuditHandler) EntityHistory(c *fiber.Ctx) error {
	out, err := h.uc.EntityHistory(c.UserContext(), GetUserID(c), c.Params("entityId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Conteos del historial
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditSummaryResponse
// @Router       /api/audit-logs/summary [get]
func (h *AuditHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recent godoc
// @Summary      Actividad reciente
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        hours  query  int  false  "Ventana en horas"  default(24)
// @Success      200  {object}  dto.AuditRecentResponse
// @Router       /api/audit-logs/recent [get]
func (h *AuditHandler) Recent(c *fiber.Ctx) error {
	out, err := h.uc.Recent(c.UserContext(), GetUserID(c), c.QueryInt("hours", audit.DefaultRecentHours))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Trends godoc
// @Summary      Tendencia diaria de actividad
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(7)
// @Success      200  {object}  dto.AuditTrendsResponse
// @Router       /api/audit-logs/trends [get]
func (h *AuditHandler) Trends(c *fiber.Ctx) error {
	out, err := h.uc.Trends(c.UserContext(), GetUserID(c), c.QueryInt("days", audit.DefaultTrendDays))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Filters godoc
// @Summary      Valores válidos de los filtros
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AuditFiltersResponse
// @Router       /api/audit-logs/filters [get]
func (h *AuditHandler) Filters(c *fiber.Ctx) error {
	return c.JSON(dto.AuditFiltersResponse{
		EntityTypes: []string{entity.AuditEntitySpace, entity.AuditEntityProduct, entity.AuditEntityUser},
		Operations: []string{
			entity.AuditOpCreate, entity.AuditOpUpdate, entity.AuditOpDelete,
			entity.AuditOpStockAdd, entity.AuditOpStockRemove, entity.AuditOpStockUpdate,
		},
	})
}

// parseTimeQuery acepta RFC 3339 o fecha-hora local ISO (se asume UTC).
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(key, "fecha inválida, use ISO-8601")
}
