// Package audit registra y consulta el historial de mutaciones.
package audit

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// DetailsSerializationError se guarda en lugar de Details cuando el payload no se puede serializar.
const DetailsSerializationError = "Error serializing details"

const (
	maxIPLength        = 255
	maxUserAgentLength = 500
)

// Event datos de una mutación aceptada.
type Event struct {
	UserID            string
	EntityType        string
	EntityID          string
	Operation         string
	Details           map[string]any
	RelatedEntityID   string
	RelatedEntityType string
	Meta              dto.RequestMeta
}

// Recorder escribe entradas de auditoría. Nunca devuelve error: un fallo se registra y se cuenta.
type Recorder struct {
	log     *logger.Logger
	metrics ports.Metrics
	clock   func() time.Time
}

// NewRecorder construye el recorder. metrics puede ser nil.
func NewRecorder(log *logger.Logger, metrics ports.Metrics) *Recorder {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Recorder{
		log:     log.Named("audit"),
		metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (r *Recorder) WithClock(clock func() time.Time) *Recorder {
	c := *r
	c.clock = clock
	return &c
}

// Record construye la entrada y la añade a sink. El timestamp lo asigna el recorder.
func (r *Recorder) Record(ctx context.Context, sink repository.AuditRepository, ev Event) {
	entry := &entity.AuditEntry{
		ID:                uuid.New().String(),
		UserID:            ev.UserID,
		EntityType:        ev.EntityType,
		EntityID:          ev.EntityID,
		Operation:         ev.Operation,
		Details:           serializeDetails(ev.Details),
		Timestamp:         r.clock(),
		IPAddress:         truncate(ev.Meta.IPAddress, maxIPLength),
		UserAgent:         truncate(ev.Meta.UserAgent, maxUserAgentLength),
		RelatedEntityID:   ev.RelatedEntityID,
		RelatedEntityType: ev.RelatedEntityType,
	}
	if err := sink.Append(ctx, entry); err != nil {
		r.metrics.AuditFailed(ev.Operation)
		r.log.Warn().Err(err).
			Str("user_id", ev.UserID).
			Str("entity_type", ev.EntityType).
			Str("entity_id", ev.EntityID).
			Str("operation", ev.Operation).
			Msg("no se pudo registrar la auditoría")
	}
}

func serializeDetails(details map[string]any) string {
	if details == nil {
		return ""
	}
	b, err := json.Marshal(details)
	if err != nil {
		return DetailsSerializationError
	}
	return string(b)
}

// truncate corta s a max runas.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ParseDetails devuelve Details como JSON parseado, o el texto tal cual si no es JSON.
func ParseDetails(details string) any {
	if details == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(details), &v); err != nil {
		return details
	}
	return v
}
