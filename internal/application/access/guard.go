// Package access verifica que un espacio o producto pertenece al usuario que llama.
// Todos los fallos de pertenencia devuelven domain.ErrAccessDenied sin distinguir la causa.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

// Guard comprueba pertenencia sobre los repositorios recibidos (pool o transacción).
type Guard struct {
	spaces   repository.SpaceRepository
	products repository.ProductRepository
}

// NewGuard construye el guard.
func NewGuard(spaces repository.SpaceRepository, products repository.ProductRepository) *Guard {
	return &Guard{spaces: spaces, products: products}
}

// Within devuelve un guard que lee a través de los repositorios de la transacción.
func (g *Guard) Within(repos repository.TxRepos) *Guard {
	return &Guard{spaces: repos.Spaces, products: repos.Products}
}

// VerifyOwnership devuelve el espacio si existe y pertenece a userID.
func (g *Guard) VerifyOwnership(ctx context.Context, userID, spaceID string) (*entity.Space, error) {
	return g.verifySpace(ctx, userID, spaceID, g.spaces.GetByID)
}

// VerifyOwnershipForUpdate igual que VerifyOwnership pero bloquea la fila del espacio.
// Solo tiene sentido dentro de una transacción (Within).
func (g *Guard) VerifyOwnershipForUpdate(ctx context.Context, userID, spaceID string) (*entity.Space, error) {
	return g.verifySpace(ctx, userID, spaceID, g.spaces.GetByIDForUpdate)
}

func (g *Guard) verifySpace(ctx context.Context, userID, spaceID string, load func(context.Context, string) (*entity.Space, error)) (*entity.Space, error) {
	if !validID(spaceID) {
		return nil, domain.ErrAccessDenied
	}
	space, err := load(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if space == nil || space.OwnerID != userID {
		return nil, domain.ErrAccessDenied
	}
	return space, nil
}

// VerifyProductInSpace verifica el espacio y que el producto pertenezca a él.
func (g *Guard) VerifyProductInSpace(ctx context.Context, userID, spaceID, productID string) (*entity.Space, *entity.Product, error) {
	return g.verifyProduct(ctx, userID, spaceID, productID, g.products.GetInSpace)
}

// VerifyProductInSpaceForUpdate igual que VerifyProductInSpace pero bloquea la fila del producto.
// Solo tiene sentido dentro de una transacción (Within).
func (g *Guard) VerifyProductInSpaceForUpdate(ctx context.Context, userID, spaceID, productID string) (*entity.Space, *entity.Product, error) {
	return g.verifyProduct(ctx, userID, spaceID, productID, g.products.GetInSpaceForUpdate)
}

type productLoader func(ctx context.Context, spaceID, productID string) (*entity.Product, error)

func (g *Guard) verifyProduct(ctx context.Context, userID, spaceID, productID string, load productLoader) (*entity.Space, *entity.Product, error) {
	space, err := g.VerifyOwnership(ctx, userID, spaceID)
	if err != nil {
		return nil, nil, err
	}
	if !validID(productID) {
		return nil, nil, domain.ErrAccessDenied
	}
	product, err := load(ctx, space.ID, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrAccessDenied
	}
	return space, product, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
