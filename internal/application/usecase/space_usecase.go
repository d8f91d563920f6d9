package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

// SpaceUseCase casos de uso de espacios: cuota por usuario, nombres únicos y borrado solo si está vacío.
type SpaceUseCase struct {
	spaces   repository.SpaceRepository
	products repository.ProductRepository
	tx       repository.TxRunner
	guard    *access.Guard
	audit    *audit.Recorder
	clock    func() time.Time
}

// NewSpaceUseCase construye el caso de uso.
func NewSpaceUseCase(
	spaces repository.SpaceRepository,
	products repository.ProductRepository,
	tx repository.TxRunner,
	guard *access.Guard,
	recorder *audit.Recorder,
) *SpaceUseCase {
	return &SpaceUseCase{
		spaces:   spaces,
		products: products,
		tx:       tx,
		guard:    guard,
		audit:    recorder,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un espacio. Bloquea la fila del usuario para serializar el chequeo de cuota y nombre.
func (uc *SpaceUseCase) Create(ctx context.Context, ownerID string, in dto.CreateSpaceRequest, meta dto.RequestMeta) (*dto.SpaceResponse, error) {
	name, err := normalizeName("name", in.Name)
	if err != nil {
		return nil, err
	}

	var created *entity.Space
	err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		owner, err := repos.Users.LockByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.ErrUserNotFound
		}
		n, err := repos.Spaces.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if n >= entity.MaxSpacesPerOwner {
			return &domain.QuotaExceededError{Max: entity.MaxSpacesPerOwner}
		}
		existing, err := repos.Spaces.GetByOwnerAndName(ctx, ownerID, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateName
		}

		now := uc.clock()
		space := &entity.Space{
			ID:        uuid.New().String(),
			OwnerID:   ownerID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Spaces.Create(ctx, space); err != nil {
			return err
		}
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:     ownerID,
			EntityType: entity.AuditEntitySpace,
			EntityID:   space.ID,
			Operation:  entity.AuditOpCreate,
			Details:    map[string]any{"spaceName": space.Name, "action": "Space created"},
			Meta:       meta,
		})
		created = space
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSpaceResponse(created, 0), nil
}

// Rename cambia el nombre. Si el nombre recortado es igual al actual no escribe ni audita.
func (uc *SpaceUseCase) Rename(ctx context.Context, ownerID, spaceID string, in dto.UpdateSpaceRequest, meta dto.RequestMeta) (*dto.SpaceResponse, error) {
	name, err := normalizeName("name", in.Name)
	if err != nil {
		return nil, err
	}

	var out *entity.Space
	var count int
	err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if _, err := repos.Users.LockByID(ctx, ownerID); err != nil {
			return err
		}
		space, err := uc.guard.Within(repos).VerifyOwnership(ctx, ownerID, spaceID)
		if err != nil {
			return err
		}
		if count, err = repos.Products.CountBySpace(ctx, space.ID); err != nil {
			return err
		}
		out = space
		if space.Name == name {
			return nil
		}
		other, err := repos.Spaces.GetByOwnerAndName(ctx, ownerID, name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != space.ID {
			return domain.ErrDuplicateName
		}

		oldName := space.Name
		space.Name = name
		space.UpdatedAt = uc.clock()
		if err := repos.Spaces.Rename(ctx, space); err != nil {
			return err
		}
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:     ownerID,
			EntityType: entity.AuditEntitySpace,
			EntityID:   space.ID,
			Operation:  entity.AuditOpUpdate,
			Details:    map[string]any{"oldName": oldName, "newName": name, "action": "Space name updated"},
			Meta:       meta,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSpaceResponse(out, count), nil
}

// Delete elimina un espacio vacío. La fila del espacio queda bloqueada entre el conteo y el borrado.
func (uc *SpaceUseCase) Delete(ctx context.Context, ownerID, spaceID string, meta dto.RequestMeta) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		space, err := uc.guard.Within(repos).VerifyOwnershipForUpdate(ctx, ownerID, spaceID)
		if err != nil {
			return err
		}
		n, err := repos.Products.CountBySpace(ctx, space.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.SpaceNotEmptyError{Products: n}
		}
		if err := repos.Spaces.Delete(ctx, space.ID); err != nil {
			return err
		}
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:     ownerID,
			EntityType: entity.AuditEntitySpace,
			EntityID:   space.ID,
			Operation:  entity.AuditOpDelete,
			Details:    map[string]any{"spaceName": space.Name, "action": "Space deleted"},
			Meta:       meta,
		})
		return nil
	})
}

// Get obtiene un espacio propio con su cantidad de productos.
func (uc *SpaceUseCase) Get(ctx context.Context, ownerID, spaceID string) (*dto.SpaceResponse, error) {
	space, err := uc.guard.VerifyOwnership(ctx, ownerID, spaceID)
	if err != nil {
		return nil, err
	}
	n, err := uc.products.CountBySpace(ctx, space.ID)
	if err != nil {
		return nil, err
	}
	return toSpaceResponse(space, n), nil
}

// List lista los espacios del usuario, más recientes primero.
func (uc *SpaceUseCase) List(ctx context.Context, ownerID string) (*dto.SpaceListResponse, error) {
	list, err := uc.spaces.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SpaceResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSpaceResponse(&s.Space, s.ProductCount))
	}
	return &dto.SpaceListResponse{Items: items, Total: len(items)}, nil
}

// Quota uso de la cuota de espacios del usuario.
func (uc *SpaceUseCase) Quota(ctx context.Context, ownerID string) (*dto.SpaceQuotaResponse, error) {
	used, err := uc.spaces.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.SpaceQuotaResponse{
		Used:      used,
		Max:       entity.MaxSpacesPerOwner,
		Remaining: max(0, entity.MaxSpacesPerOwner-used),
		CanCreate: used < entity.MaxSpacesPerOwner,
	}, nil
}

func toSpaceResponse(s *entity.Space, productCount int) *dto.SpaceResponse {
	if s == nil {
		return nil
	}
	return &dto.SpaceResponse{
		ID:           s.ID,
		Name:         s.Name,
		ProductCount: productCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
