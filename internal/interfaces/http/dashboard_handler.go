package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/VishalKmk/Inventory-Management-App/internal/application/analytics"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// HeaderReportLocation ubicación del reporte archivado, si hay almacenamiento configurado.
const HeaderReportLocation = "X-Report-Location"

// DashboardHandler maneja los endpoints del dashboard y el reporte PDF.
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	report *appanalytics.ReportUseCase
	log    *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, report *appanalytics.ReportUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, report: report, log: log}
}

// Overview godoc
// @Summary      Resumen del inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardOverviewDTO
// @Router       /api/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Insights godoc
// @Summary      Estadísticas de precio y stock
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InsightsDTO
// @Router       /api/dashboard/insights [get]
func (h *DashboardHandler) Insights(c *fiber.Ctx) error {
	out, err := h.uc.Insights(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStockAlerts godoc
// @Summary      Alertas de stock bajo por espacio
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockAlertsDTO
// @Router       /api/dashboard/low-stock-alerts [get]
func (h *DashboardHandler) LowStockAlerts(c *fiber.Ctx) error {
	out, err := h.uc.LowStockAlerts(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecentActivity godoc
// @Summary      Actividad de la última semana
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecentActivityDTO
// @Router       /api/dashboard/recent-activity [get]
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	out, err := h.uc.RecentActivity(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SpaceMetrics godoc
// @Summary      Métricas por espacio
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SpaceMetricsDTO
// @Router       /api/dashboard/space-metrics [get]
func (h *DashboardHandler) SpaceMetrics(c *fiber.Ctx) error {
	out, err := h.uc.SpaceMetrics(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos principales
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int     false  "1 a 50"                default(10)
// @Param        sortBy  query  string  false  "value, price o stock"  default(value)
// @Success      200  {object}  dto.TopProductsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext(), GetUserID(c), c.QueryInt("limit", 0), c.Query("sortBy"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Trends godoc
// @Summary      Tendencias del inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(7)
// @Success      200  {object}  dto.TrendsDTO
// @Router       /api/dashboard/trends [get]
func (h *DashboardHandler) Trends(c *fiber.Ctx) error {
	out, err := h.uc.Trends(c.UserContext(), GetUserID(c), c.QueryInt("days", audit.DefaultTrendDays))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de inventario en PDF
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/dashboard/report [get]
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	out, err := h.report.InventoryReport(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out.Location != "" {
		c.Set(HeaderReportLocation, out.Location)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.FileName+`"`)
	return c.Send(out.Content)
}
