package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

// ProductUseCase casos de uso de productos dentro de los espacios del usuario.
// El stock solo cambia por el motor de stock (application/inventory).
type ProductUseCase struct {
	products repository.ProductRepository
	tx       repository.TxRunner
	guard    *access.Guard
	audit    *audit.Recorder
	clock    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	tx repository.TxRunner,
	guard *access.Guard,
	recorder *audit.Recorder,
) *ProductUseCase {
	return &ProductUseCase{
		products: products,
		tx:       tx,
		guard:    guard,
		audit:    recorder,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto en un espacio propio.
func (uc *ProductUseCase) Create(ctx context.Context, ownerID, spaceID string, in dto.CreateProductRequest, meta dto.RequestMeta) (*dto.ProductResponse, error) {
	name, err := normalizeName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if in.Price == nil {
		return nil, domain.NewValidationError("price", "es obligatorio")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if err := inventory.ValidateLevel("initial_stock", in.InitialStock); err != nil {
		return nil, err
	}
	if err := validateThresholds(in.MinimumQuantity, in.MaximumQuantity); err != nil {
		return nil, err
	}

	var created *entity.Product
	err = uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		space, err := uc.guard.Within(repos).VerifyOwnership(ctx, ownerID, spaceID)
		if err != nil {
			return err
		}
		now := uc.clock()
		p := &entity.Product{
			ID:              uuid.New().String(),
			SpaceID:         space.ID,
			Name:            name,
			Price:           *in.Price,
			CurrentStock:    in.InitialStock,
			MinimumQuantity: in.MinimumQuantity,
			MaximumQuantity: in.MaximumQuantity,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		p.SpaceName = space.Name
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:     ownerID,
			EntityType: entity.AuditEntityProduct,
			EntityID:   p.ID,
			Operation:  entity.AuditOpCreate,
			Details: map[string]any{
				"productName":     p.Name,
				"spaceName":       space.Name,
				"price":           p.Price.InexactFloat64(),
				"initialStock":    p.CurrentStock,
				"minimumQuantity": p.MinimumQuantity,
				"maximumQuantity": p.MaximumQuantity,
				"action":          "Product created",
			},
			RelatedEntityID:   space.ID,
			RelatedEntityType: entity.AuditEntitySpace,
			Meta:              meta,
		})
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(created), nil
}

// Update aplica solo los campos informados que difieren del valor actual.
// Si nada cambia no hay escritura ni auditoría.
func (uc *ProductUseCase) Update(ctx context.Context, ownerID, spaceID, productID string, in dto.UpdateProductRequest, meta dto.RequestMeta) (*dto.ProductResponse, error) {
	var newName string
	if in.Name != nil {
		n, err := normalizeName("name", *in.Name)
		if err != nil {
			return nil, err
		}
		newName = n
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if in.MinimumQuantity != nil {
		if err := inventory.ValidateLevel("minimum_quantity", *in.MinimumQuantity); err != nil {
			return nil, err
		}
	}
	if in.MaximumQuantity != nil {
		if err := inventory.ValidateLevel("maximum_quantity", *in.MaximumQuantity); err != nil {
			return nil, err
		}
	}

	var out *entity.Product
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		space, p, err := uc.guard.Within(repos).VerifyProductInSpaceForUpdate(ctx, ownerID, spaceID, productID)
		if err != nil {
			return err
		}
		out = p

		changes := map[string]any{}
		if in.Name != nil && newName != p.Name {
			changes["oldName"], changes["newName"] = p.Name, newName
			p.Name = newName
		}
		if in.Price != nil && !in.Price.Equal(p.Price) {
			changes["oldPrice"], changes["newPrice"] = p.Price.InexactFloat64(), in.Price.InexactFloat64()
			p.Price = *in.Price
		}
		if in.MinimumQuantity != nil && !sameInt(p.MinimumQuantity, in.MinimumQuantity) {
			changes["oldMinimumQuantity"], changes["newMinimumQuantity"] = p.MinimumQuantity, *in.MinimumQuantity
			p.MinimumQuantity = intPtr(*in.MinimumQuantity)
		}
		if in.MaximumQuantity != nil && !sameInt(p.MaximumQuantity, in.MaximumQuantity) {
			changes["oldMaximumQuantity"], changes["newMaximumQuantity"] = p.MaximumQuantity, *in.MaximumQuantity
			p.MaximumQuantity = intPtr(*in.MaximumQuantity)
		}
		if len(changes) == 0 {
			return nil
		}
		if err := validateThresholds(p.MinimumQuantity, p.MaximumQuantity); err != nil {
			return err
		}

		p.UpdatedAt = uc.clock()
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		changes["productName"] = p.Name
		changes["spaceName"] = space.Name
		changes["action"] = "Product details updated"
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:            ownerID,
			EntityType:        entity.AuditEntityProduct,
			EntityID:          p.ID,
			Operation:         entity.AuditOpUpdate,
			Details:           changes,
			RelatedEntityID:   space.ID,
			RelatedEntityType: entity.AuditEntitySpace,
			Meta:              meta,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(out), nil
}

// Delete elimina un producto. Los datos de auditoría se capturan antes del borrado.
func (uc *ProductUseCase) Delete(ctx context.Context, ownerID, spaceID, productID string, meta dto.RequestMeta) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		space, p, err := uc.guard.Within(repos).VerifyProductInSpaceForUpdate(ctx, ownerID, spaceID, productID)
		if err != nil {
			return err
		}
		details := map[string]any{
			"productName":  p.Name,
			"spaceName":    space.Name,
			"finalStock":   p.CurrentStock,
			"productValue": p.Value().InexactFloat64(),
			"action":       "Product deleted",
		}
		if err := repos.Products.Delete(ctx, p.ID); err != nil {
			return err
		}
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:            ownerID,
			EntityType:        entity.AuditEntityProduct,
			EntityID:          p.ID,
			Operation:         entity.AuditOpDelete,
			Details:           details,
			RelatedEntityID:   space.ID,
			RelatedEntityType: entity.AuditEntitySpace,
			Meta:              meta,
		})
		return nil
	})
}

// Get obtiene un producto de un espacio propio.
func (uc *ProductUseCase) Get(ctx context.Context, ownerID, spaceID, productID string) (*dto.ProductResponse, error) {
	_, p, err := uc.guard.VerifyProductInSpace(ctx, ownerID, spaceID, productID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// ListBySpace productos de un espacio propio. Con query no vacía filtra por nombre.
func (uc *ProductUseCase) ListBySpace(ctx context.Context, ownerID, spaceID, query string) (*dto.ProductListResponse, error) {
	space, err := uc.guard.VerifyOwnership(ctx, ownerID, spaceID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Product
	if q := strings.TrimSpace(query); q != "" {
		list, err = uc.products.Search(ctx, ownerID, space.ID, q)
	} else {
		list, err = uc.products.ListBySpace(ctx, space.ID)
	}
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// ListAll productos de todos los espacios del usuario. Con query no vacía filtra por nombre.
func (uc *ProductUseCase) ListAll(ctx context.Context, ownerID, query string) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	var err error
	if q := strings.TrimSpace(query); q != "" {
		list, err = uc.products.Search(ctx, ownerID, "", q)
	} else {
		list, err = uc.products.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// LowStock productos en o debajo de su mínimo. spaceID vacío = todos los espacios del usuario.
func (uc *ProductUseCase) LowStock(ctx context.Context, ownerID, spaceID string) (*dto.ProductListResponse, error) {
	if spaceID != "" {
		if _, err := uc.guard.VerifyOwnership(ctx, ownerID, spaceID); err != nil {
			return nil, err
		}
	}
	list, err := uc.products.ListLowStock(ctx, ownerID, spaceID)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

func validateThresholds(minimum, maximum *int) error {
	if minimum != nil {
		if err := inventory.ValidateLevel("minimum_quantity", *minimum); err != nil {
			return err
		}
	}
	if maximum != nil {
		if err := inventory.ValidateLevel("maximum_quantity", *maximum); err != nil {
			return err
		}
	}
	if minimum != nil && maximum != nil && *maximum < *minimum {
		return domain.NewValidationError("maximum_quantity", "debe ser mayor o igual al mínimo")
	}
	return nil
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtr(v int) *int { return &v }

func toProductList(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}

// ToProductResponse convierte la entidad a DTO con los campos derivados.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SpaceID:         p.SpaceID,
		SpaceName:       p.SpaceName,
		Name:            p.Name,
		Price:           p.Price,
		CurrentStock:    p.CurrentStock,
		MinimumQuantity: p.MinimumQuantity,
		MaximumQuantity: p.MaximumQuantity,
		IsLowStock:      inventory.ProductIsLowStock(p),
		StockStatus:     inventory.Status(p),
		Value:           p.Value().Round(2),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
