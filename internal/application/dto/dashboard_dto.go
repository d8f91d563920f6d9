package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatusBreakdown conteo de productos por estado de stock.
type StockStatusBreakdown struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}

// DashboardOverviewDTO respuesta de GET /api/dashboard/overview.
type DashboardOverviewDTO struct {
	TotalSpaces             int                  `json:"total_spaces"`
	MaxSpaces               int                  `json:"max_spaces"`
	SpaceUtilization        float64              `json:"space_utilization"` // porcentaje, 2 decimales
	TotalProducts           int                  `json:"total_products"`
	TotalValue              decimal.Decimal      `json:"total_value"`
	LowStockCount           int                  `json:"low_stock_count"`
	StockStatus             StockStatusBreakdown `json:"stock_status"`
	AverageProductsPerSpace float64              `json:"average_products_per_space"`
	HasData                 bool                 `json:"has_data"`
}

// MinMaxAvg estadística simple de una serie.
type MinMaxAvg struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// StockStats estadística de stock con el total de unidades.
type StockStats struct {
	MinMaxAvg
	Total int `json:"total"`
}

// InsightsDTO respuesta de GET /api/dashboard/insights.
type InsightsDTO struct {
	HasData             bool                       `json:"has_data"`
	PriceStats          *MinMaxAvg                 `json:"price_stats,omitempty"`
	StockStats          *StockStats                `json:"stock_stats,omitempty"`
	ValueBySpace        map[string]decimal.Decimal `json:"value_by_space"`
	ProductCountBySpace map[string]int             `json:"product_count_by_space"`
}

// LowStockAlertDTO alerta de un producto en o debajo de su mínimo.
type LowStockAlertDTO struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	SpaceID         string `json:"space_id"`
	SpaceName       string `json:"space_name"`
	CurrentStock    int    `json:"current_stock"`
	MinimumQuantity int    `json:"minimum_quantity"`
	StockDifference int    `json:"stock_difference"`
	Severity        string `json:"severity"`
}

// LowStockAlertsDTO respuesta de GET /api/dashboard/low-stock-alerts.
type LowStockAlertsDTO struct {
	TotalAlerts       int                           `json:"total_alerts"`
	AlertsBySpace     map[string][]LowStockAlertDTO `json:"alerts_by_space"`
	SeverityBreakdown map[string]int                `json:"severity_breakdown"`
	HasAlerts         bool                          `json:"has_alerts"`
}

// ActivityDTO entrada legible del historial reciente.
type ActivityDTO struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	Timestamp   time.Time `json:"timestamp"`
	IPAddress   string    `json:"ip_address,omitempty"`
	Details     any       `json:"details,omitempty"`
	Description string    `json:"description"`
}

// RecentActivityDTO respuesta de GET /api/dashboard/recent-activity.
type RecentActivityDTO struct {
	Activities  []ActivityDTO `json:"activities"`
	TotalCount  int           `json:"total_count"`
	HasActivity bool          `json:"has_activity"`
}

// SpaceMetricDTO métricas de un espacio.
type SpaceMetricDTO struct {
	SpaceID       string          `json:"space_id"`
	SpaceName     string          `json:"space_name"`
	ProductCount  int             `json:"product_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
	HealthScore   float64         `json:"health_score"`
}

// SpaceMetricsSummary totales sobre todos los espacios.
type SpaceMetricsSummary struct {
	TotalSpaces          int             `json:"total_spaces"`
	TotalValue           decimal.Decimal `json:"total_value"`
	TotalProducts        int             `json:"total_products"`
	AverageValuePerSpace decimal.Decimal `json:"average_value_per_space"`
}

// SpaceMetricsDTO respuesta de GET /api/dashboard/space-metrics.
type SpaceMetricsDTO struct {
	Spaces  []SpaceMetricDTO    `json:"spaces"`
	Summary SpaceMetricsSummary `json:"summary"`
	HasData bool                `json:"has_data"`
}

// TopProductDTO producto del ranking.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	SpaceName    string          `json:"space_name"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int             `json:"current_stock"`
	Value        decimal.Decimal `json:"value"`
}

// TopProductsDTO respuesta de GET /api/dashboard/top-products.
type TopProductsDTO struct {
	TopProducts []TopProductDTO `json:"top_products"`
	SortedBy    string          `json:"sorted_by"`
	Limit       int             `json:"limit"`
	HasData     bool            `json:"has_data"`
}

// TrendsDTO respuesta de GET /api/dashboard/trends: foto actual + actividad del período.
type TrendsDTO struct {
	Period        string               `json:"period"`
	Current       DashboardOverviewDTO `json:"current"`
	Activity      AuditTrendsResponse  `json:"activity"`
	StockMovement map[string]int       `json:"stock_movement"`
	HasData       bool                 `json:"has_data"`
}

// InventoryReport datos del reporte PDF de inventario.
type InventoryReport struct {
	OwnerName   string
	OwnerEmail  string
	GeneratedAt time.Time
	Overview    DashboardOverviewDTO
	Spaces      []InventoryReportSpace
}

// InventoryReportSpace un espacio del reporte con sus productos.
type InventoryReportSpace struct {
	Name     string
	Value    decimal.Decimal
	Products []ProductResponse
}

// ReportResult reporte generado y, si se archivó, su ubicación.
type ReportResult struct {
	FileName string
	Content  []byte
	Location string
}
