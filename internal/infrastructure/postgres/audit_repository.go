package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `id, user_id, entity_type, entity_id, operation, details, logged_at,
	ip_address, user_agent, related_entity_id, related_entity_type`

// AuditRepo historial append-only sobre la tabla audit_logs.
type AuditRepo struct {
	q  Querier
	tx pgx.Tx // no nil: Append se aísla en un SAVEPOINT de la transacción
}

// NewAuditRepository repositorio sobre el pool (o cualquier Querier sin savepoint).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// NewTxAuditRepository repositorio atado a una transacción de negocio. Un fallo al
// insertar la entrada revierte solo el savepoint y la transacción sigue utilizable.
func NewTxAuditRepository(tx pgx.Tx) *AuditRepo {
	return &AuditRepo{q: tx, tx: tx}
}

const insertAudit = `
	INSERT INTO audit_logs (` + auditColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Append inserta una entrada.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	args := []any{
		e.ID, e.UserID, e.EntityType, e.EntityID, e.Operation, nullString(e.Details), e.Timestamp,
		nullString(e.IPAddress), nullString(e.UserAgent), nullString(e.RelatedEntityID), nullString(e.RelatedEntityType),
	}
	if r.tx == nil {
		if _, err := r.q.Exec(ctx, insertAudit, args...); err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}
		return nil
	}

	sp, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("audit savepoint: %w", err)
	}
	if _, err := sp.Exec(ctx, insertAudit, args...); err != nil {
		_ = sp.Rollback(ctx)
		return fmt.Errorf("insert audit entry: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release audit savepoint: %w", err)
	}
	return nil
}

// List entradas del usuario que cumplen el filtro, más recientes primero, y el total sin paginar.
func (r *AuditRepo) List(ctx context.Context, f entity.AuditFilter) ([]*entity.AuditEntry, int, error) {
	where := []string{"user_id = $1"}
	args := []any{f.UserID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.EntityType != "" {
		add("entity_type = $%d", f.EntityType)
	}
	if f.Operation != "" {
		add("operation = $%d", f.Operation)
	}
	if f.EntityID != "" {
		add("entity_id = $%d", f.EntityID)
	}
	if f.From != nil {
		add("logged_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("logged_at <= $%d", *f.To)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE ` + cond + ` ORDER BY logged_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListSince entradas del usuario desde since, más recientes primero.
func (r *AuditRepo) ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]*entity.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE user_id = $1 AND logged_at >= $2 ORDER BY logged_at DESC, id`
	args := []any{userID, since}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// CountByOperation cantidad de entradas del usuario por operación.
func (r *AuditRepo) CountByOperation(ctx context.Context, userID string) (map[string]int, error) {
	return r.countBy(ctx, "operation", userID)
}

// CountByEntityType cantidad de entradas del usuario por tipo de entidad.
func (r *AuditRepo) CountByEntityType(ctx context.Context, userID string) (map[string]int, error) {
	return r.countBy(ctx, "entity_type", userID)
}

// column es siempre una constante interna, nunca entrada del usuario.
func (r *AuditRepo) countBy(ctx context.Context, column, userID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+column+`, COUNT(*) FROM audit_logs WHERE user_id = $1 GROUP BY `+column, userID)
	if err != nil {
		return nil, fmt.Errorf("count audit by %s: %w", column, err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan audit count: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *AuditRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var details, ip, agent, relID, relType *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.EntityType, &e.EntityID, &e.Operation, &details, &e.Timestamp,
			&ip, &agent, &relID, &relType); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Details = derefString(details)
		e.IPAddress = derefString(ip)
		e.UserAgent = derefString(agent)
		e.RelatedEntityID = derefString(relID)
		e.RelatedEntityType = derefString(relType)
		list = append(list, &e)
	}
	return list, rows.Err()
}
