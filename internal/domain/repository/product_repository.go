package repository

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los listados completan Product.SpaceName.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetInSpace devuelve el producto solo si pertenece al espacio indicado.
	GetInSpace(ctx context.Context, spaceID, productID string) (*entity.Product, error)
	// GetInSpaceForUpdate igual que GetInSpace pero bloquea la fila (SELECT FOR UPDATE).
	GetInSpaceForUpdate(ctx context.Context, spaceID, productID string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	CountBySpace(ctx context.Context, spaceID string) (int, error)

	ListBySpace(ctx context.Context, spaceID string) ([]*entity.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error)
	// Search filtra por nombre (subcadena, sin distinguir mayúsculas). spaceID vacío = todos los espacios del dueño.
	Search(ctx context.Context, ownerID, spaceID, query string) ([]*entity.Product, error)
	// ListLowStock productos con mínimo configurado y stock <= mínimo. spaceID vacío = todos.
	ListLowStock(ctx context.Context, ownerID, spaceID string) ([]*entity.Product, error)

	// IncrementStock suma q y devuelve el nuevo stock.
	IncrementStock(ctx context.Context, id string, q int) (int, error)
	// DecrementStock resta q solo si current_stock >= q (update condicional).
	// Devuelve domain.ErrInsufficientStock si no hay stock suficiente.
	DecrementStock(ctx context.Context, id string, q int) (int, error)
	SetStock(ctx context.Context, id string, q int) error
}
