package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

var _ repository.SpaceRepository = (*SpaceRepo)(nil)

// SpaceRepo implementación del puerto SpaceRepository sobre PostgreSQL (usable con pool o tx).
type SpaceRepo struct {
	q Querier
}

// NewSpaceRepository construye el adaptador de persistencia para espacios. Pasar pool o tx (Querier).
func NewSpaceRepository(q Querier) *SpaceRepo {
	return &SpaceRepo{q: q}
}

// Create persiste un nuevo espacio. El índice único (owner_id, name) respalda la regla de nombre duplicado.
func (r *SpaceRepo) Create(ctx context.Context, space *entity.Space) error {
	query := `
		INSERT INTO spaces (id, owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, space.ID, space.OwnerID, space.Name, space.CreatedAt, space.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert space: %w", err)
	}
	return nil
}

// GetByID obtiene un espacio por ID.
func (r *SpaceRepo) GetByID(ctx context.Context, id string) (*entity.Space, error) {
	query := `SELECT id, owner_id, name, created_at, updated_at FROM spaces WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila (solo dentro de una tx).
// Un INSERT concurrente de productos en el espacio espera a que la tx termine.
func (r *SpaceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Space, error) {
	query := `SELECT id, owner_id, name, created_at, updated_at FROM spaces WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// GetByOwnerAndName obtiene un espacio por dueño y nombre exacto (distingue mayúsculas).
func (r *SpaceRepo) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*entity.Space, error) {
	query := `SELECT id, owner_id, name, created_at, updated_at FROM spaces WHERE owner_id = $1 AND name = $2`
	return r.getOne(ctx, query, ownerID, name)
}

// CountByOwner cuenta los espacios del dueño.
func (r *SpaceRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM spaces WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count spaces: %w", err)
	}
	return n, nil
}

// ListByOwner lista los espacios del dueño con su cantidad de productos, más recientes primero.
func (r *SpaceRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.SpaceWithCount, error) {
	query := `
		SELECT s.id, s.owner_id, s.name, s.created_at, s.updated_at, COUNT(p.id)
		FROM spaces s
		LEFT JOIN products p ON p.space_id = s.id
		WHERE s.owner_id = $1
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id`
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()
	var list []*entity.SpaceWithCount
	for rows.Next() {
		var s entity.SpaceWithCount
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedAt, &s.UpdatedAt, &s.ProductCount); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Rename actualiza el nombre del espacio.
func (r *SpaceRepo) Rename(ctx context.Context, space *entity.Space) error {
	_, err := r.q.Exec(ctx,
		`UPDATE spaces SET name = $2, updated_at = $3 WHERE id = $1`,
		space.ID, space.Name, space.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update space: %w", err)
	}
	return nil
}

// Delete elimina un espacio por ID. Los productos se eliminan en cascada a nivel de DB.
func (r *SpaceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	return nil
}

func (r *SpaceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Space, error) {
	var s entity.Space
	err := r.q.QueryRow(ctx, query, args...).Scan(&s.ID, &s.OwnerID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get space: %w", err)
	}
	return &s, nil
}
