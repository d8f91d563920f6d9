package entity

import "time"

// Tipos de entidad auditables.
const (
	AuditEntitySpace   = "SPACE"
	AuditEntityProduct = "PRODUCT"
	AuditEntityUser    = "USER"
)

// Operaciones auditables.
const (
	AuditOpCreate      = "CREATE"
	AuditOpUpdate      = "UPDATE"
	AuditOpDelete      = "DELETE"
	AuditOpStockAdd    = "STOCK_ADD"
	AuditOpStockRemove = "STOCK_REMOVE"
	AuditOpStockUpdate = "STOCK_UPDATE"
)

// AuditEntry registro inmutable de una mutación aceptada.
// Details es el JSON serializado del payload (o un marcador fijo si no se pudo serializar).
type AuditEntry struct {
	ID                string
	UserID            string
	EntityType        string
	EntityID          string
	Operation         string
	Details           string
	Timestamp         time.Time
	IPAddress         string
	UserAgent         string
	RelatedEntityID   string
	RelatedEntityType string
}

// AuditFilter filtros para consultar el historial de auditoría de un usuario.
type AuditFilter struct {
	UserID     string
	EntityType string
	Operation  string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// IsValidAuditEntityType indica si t es un tipo de entidad auditable.
func IsValidAuditEntityType(t string) bool {
	switch t {
	case AuditEntitySpace, AuditEntityProduct, AuditEntityUser:
		return true
	}
	return false
}

// IsValidAuditOperation indica si op es una operación auditable.
func IsValidAuditOperation(op string) bool {
	switch op {
	case AuditOpCreate, AuditOpUpdate, AuditOpDelete, AuditOpStockAdd, AuditOpStockRemove, AuditOpStockUpdate:
		return true
	}
	return false
}
