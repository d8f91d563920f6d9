package repository

import (
	"context"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// AuditRepository puerto append-only para el historial de auditoría.
// No existe operación de actualización ni de borrado.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	List(ctx context.Context, filter entity.AuditFilter) ([]*entity.AuditEntry, int, error)
	// ListSince entradas del usuario desde since, más recientes primero. limit <= 0 = sin límite.
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]*entity.AuditEntry, error)
	CountByOperation(ctx context.Context, userID string) (map[string]int, error)
	CountByEntityType(ctx context.Context, userID string) (map[string]int, error)
}
