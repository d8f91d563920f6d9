package repository

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get/Find devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// LockByID bloquea la fila del usuario hasta el fin de la transacción (SELECT FOR UPDATE).
	// Serializa las operaciones sobre los espacios de un mismo dueño.
	LockByID(ctx context.Context, id string) (*entity.User, error)
	MarkVerified(ctx context.Context, id string) error
}
