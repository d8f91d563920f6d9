package dto

import "time"

// AuditLogQuery filtros de GET /api/audit-logs.
type AuditLogQuery struct {
	EntityType string     `query:"entityType"`
	Operation  string     `query:"operation"`
	EntityID   string     `query:"entityId"`
	From       *time.Time `query:"-"`
	To         *time.Time `query:"-"`
	PageRequest
}

// AuditLogResponse una entrada del historial. Details se devuelve parseado cuando es JSON válido.
type AuditLogResponse struct {
	ID                string    `json:"id"`
	EntityType        string    `json:"entity_type"`
	EntityID          string    `json:"entity_id"`
	Operation         string    `json:"operation"`
	Details           any       `json:"details,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	IPAddress         string    `json:"ip_address,omitempty"`
	UserAgent         string    `json:"user_agent,omitempty"`
	RelatedEntityID   string    `json:"related_entity_id,omitempty"`
	RelatedEntityType string    `json:"related_entity_type,omitempty"`
}

// AuditLogListResponse página de entradas.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditSummaryResponse conteos por operación y por tipo de entidad.
type AuditSummaryResponse struct {
	CreateOperations int `json:"create_operations"`
	UpdateOperations int `json:"update_operations"`
	DeleteOperations int `json:"delete_operations"`
	StockOperations  int `json:"stock_operations"`
	SpaceLogs        int `json:"space_logs"`
	ProductLogs      int `json:"product_logs"`
	UserLogs         int `json:"user_logs"`
	TotalLogs        int `json:"total_logs"`
}

// AuditRecentResponse entradas de las últimas horas.
type AuditRecentResponse struct {
	Hours int                `json:"hours"`
	Items []AuditLogResponse `json:"items"`
	Count int                `json:"count"`
}

// AuditTrendsResponse actividad diaria y desglose por operación en una ventana de días.
type AuditTrendsResponse struct {
	DailyActivity      map[string]int `json:"daily_activity"`
	OperationBreakdown map[string]int `json:"operation_breakdown"`
	TotalActivities    int            `json:"total_activities"`
	Period             string         `json:"period"`
}

// AuditFiltersResponse valores aceptados por los filtros del historial.
type AuditFiltersResponse struct {
	EntityTypes []string `json:"entity_types"`
	Operations  []string `json:"operations"`
}
