package repository

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// SpaceRepository define el puerto de persistencia para Space (DIP).
type SpaceRepository interface {
	Create(ctx context.Context, space *entity.Space) error
	GetByID(ctx context.Context, id string) (*entity.Space, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Space, error)
	GetByOwnerAndName(ctx context.Context, ownerID, name string) (*entity.Space, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.SpaceWithCount, error)
	Rename(ctx context.Context, space *entity.Space) error
	Delete(ctx context.Context, id string) error
}
