// Package ports define los puertos de salida de la capa de aplicación.
// Los adaptadores (SMTP, Redis, Maroto, S3, Prometheus) viven en infrastructure.
package ports

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
)

// Notifier entrega mensajes al usuario (email). Los fallos los registra el llamador; no se reintenta.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RateLimiter limita la frecuencia por clave (p. ej. emisión de OTP por email).
// Una implementación nil-safe debe permitir todo.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ReportRenderer genera el documento del reporte de inventario.
type ReportRenderer interface {
	RenderInventoryReport(ctx context.Context, report *dto.InventoryReport) ([]byte, error)
}

// ReportArchive guarda una copia del reporte y devuelve su ubicación.
type ReportArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Metrics contadores de negocio.
type Metrics interface {
	AuditFailed(operation string)
	StockMoved(operation string, quantity int)
}

// NopMetrics implementación vacía para tests y arranques sin métricas.
type NopMetrics struct{}

func (NopMetrics) AuditFailed(string)     {}
func (NopMetrics) StockMoved(string, int) {}
