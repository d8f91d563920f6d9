package repository

import (
	"context"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// OTPRepository puerto de persistencia de códigos de verificación.
type OTPRepository interface {
	Create(ctx context.Context, code *entity.OneTimeCode) error
	// LatestByEmail el código con ExpiresAt más reciente, o nil si no hay ninguno.
	LatestByEmail(ctx context.Context, email string) (*entity.OneTimeCode, error)
}
