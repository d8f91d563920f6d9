package memory

import (
	"context"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo historial append-only en memoria, en orden de inserción.
type AuditRepo struct {
	store *Store
	tx    *state
}

func (r *AuditRepo) Append(_ context.Context, entry *entity.AuditEntry) error {
	return r.store.with(r.tx, func(st *state) error {
		st.audit = append(st.audit, *entry)
		return nil
	})
}

func (r *AuditRepo) List(_ context.Context, f entity.AuditFilter) ([]*entity.AuditEntry, int, error) {
	matched := r.newestFirst(func(e *entity.AuditEntry) bool {
		switch {
		case e.UserID != f.UserID:
			return false
		case f.EntityType != "" && e.EntityType != f.EntityType:
			return false
		case f.Operation != "" && e.Operation != f.Operation:
			return false
		case f.EntityID != "" && e.EntityID != f.EntityID:
			return false
		case f.From != nil && e.Timestamp.Before(*f.From):
			return false
		case f.To != nil && e.Timestamp.After(*f.To):
			return false
		}
		return true
	})
	total := len(matched)
	if f.Limit > 0 {
		start := min(max(f.Offset, 0), total)
		end := min(start+f.Limit, total)
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *AuditRepo) ListSince(_ context.Context, userID string, since time.Time, limit int) ([]*entity.AuditEntry, error) {
	matched := r.newestFirst(func(e *entity.AuditEntry) bool {
		return e.UserID == userID && !e.Timestamp.Before(since)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *AuditRepo) CountByOperation(_ context.Context, userID string) (map[string]int, error) {
	return r.countBy(userID, func(e *entity.AuditEntry) string { return e.Operation }), nil
}

func (r *AuditRepo) CountByEntityType(_ context.Context, userID string) (map[string]int, error) {
	return r.countBy(userID, func(e *entity.AuditEntry) string { return e.EntityType }), nil
}

func (r *AuditRepo) countBy(userID string, key func(*entity.AuditEntry) string) map[string]int {
	out := make(map[string]int)
	_ = r.store.with(r.tx, func(st *state) error {
		for i := range st.audit {
			if st.audit[i].UserID == userID {
				out[key(&st.audit[i])]++
			}
		}
		return nil
	})
	return out
}

// newestFirst recorre desde el final: a igual timestamp gana la última insertada.
func (r *AuditRepo) newestFirst(keep func(*entity.AuditEntry) bool) []*entity.AuditEntry {
	var out []*entity.AuditEntry
	_ = r.store.with(r.tx, func(st *state) error {
		for i := len(st.audit) - 1; i >= 0; i-- {
			e := st.audit[i]
			if keep(&e) {
				out = append(out, &e)
			}
		}
		return nil
	})
	sortNewest(out,
		func(e *entity.AuditEntry) int64 { return e.Timestamp.UnixNano() },
		func(*entity.AuditEntry) int64 { return 0 })
	return out
}
