// Package inventory contiene los casos de uso que mueven stock: entradas, salidas y ajustes,
// siempre con la fila del producto bloqueada dentro de la transacción.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/audit"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	stock "github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

// StockUseCase registra movimientos de stock (add, remove, set) de forma transaccional.
type StockUseCase struct {
	tx      repository.TxRunner
	guard   *access.Guard
	audit   *audit.Recorder
	metrics ports.Metrics
	clock   func() time.Time
}

// NewStockUseCase construye el caso de uso. metrics puede ser nil.
func NewStockUseCase(tx repository.TxRunner, guard *access.Guard, recorder *audit.Recorder, metrics ports.Metrics) *StockUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockUseCase{
		tx:      tx,
		guard:   guard,
		audit:   recorder,
		metrics: metrics,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// StockTarget producto al que se aplica el movimiento.
type StockTarget struct {
	OwnerID   string
	SpaceID   string
	ProductID string
}

// AddStock suma quantity (>= 1). No hay tope superior.
func (uc *StockUseCase) AddStock(ctx context.Context, t StockTarget, quantity int, meta dto.RequestMeta) (*dto.ProductResponse, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	out, err := uc.move(ctx, t, meta, func(ctx context.Context, repos repository.TxRepos, p *entity.Product) (string, map[string]any, error) {
		oldStock := p.CurrentStock
		if _, err := stock.ApplyAdd(oldStock, quantity); err != nil {
			return "", nil, err
		}
		newStock, err := repos.Products.IncrementStock(ctx, p.ID, quantity)
		if err != nil {
			return "", nil, err
		}
		p.CurrentStock = newStock
		return entity.AuditOpStockAdd, map[string]any{
			"oldStock":      oldStock,
			"newStock":      newStock,
			"quantityAdded": quantity,
			"action":        "Stock added",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(entity.AuditOpStockAdd, quantity)
	return out, nil
}

// RemoveStock resta quantity (>= 1). Si supera el stock actual falla sin modificar nada.
func (uc *StockUseCase) RemoveStock(ctx context.Context, t StockTarget, quantity int, meta dto.RequestMeta) (*dto.ProductResponse, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	out, err := uc.move(ctx, t, meta, func(ctx context.Context, repos repository.TxRepos, p *entity.Product) (string, map[string]any, error) {
		oldStock := p.CurrentStock
		if _, err := stock.ApplyRemove(oldStock, quantity); err != nil {
			return "", nil, err
		}
		newStock, err := repos.Products.DecrementStock(ctx, p.ID, quantity)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return "", nil, &domain.InsufficientStockError{Current: oldStock, Requested: quantity}
		}
		if err != nil {
			return "", nil, err
		}
		p.CurrentStock = newStock
		return entity.AuditOpStockRemove, map[string]any{
			"oldStock":        oldStock,
			"newStock":        newStock,
			"quantityRemoved": quantity,
			"isLowStock":      stock.ProductIsLowStock(p),
			"action":          "Stock removed",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockMoved(entity.AuditOpStockRemove, quantity)
	return out, nil
}

// SetStock sobrescribe el stock con quantity (>= 0).
func (uc *StockUseCase) SetStock(ctx context.Context, t StockTarget, quantity int, meta dto.RequestMeta) (*dto.ProductResponse, error) {
	if _, err := stock.ApplySet(0, quantity); err != nil {
		return nil, err
	}
	var delta int
	out, err := uc.move(ctx, t, meta, func(ctx context.Context, repos repository.TxRepos, p *entity.Product) (string, map[string]any, error) {
		oldStock := p.CurrentStock
		delta = quantity - oldStock
		if delta < 0 {
			delta = -delta
		}
		if err := repos.Products.SetStock(ctx, p.ID, quantity); err != nil {
			return "", nil, err
		}
		p.CurrentStock = quantity
		return entity.AuditOpStockUpdate, map[string]any{
			"oldStock": oldStock,
			"newStock": quantity,
			"action":   "Stock updated",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	// solo cuentan las unidades que realmente cambiaron
	uc.metrics.StockMoved(entity.AuditOpStockUpdate, delta)
	return out, nil
}

// movement aplica el cambio sobre el producto bloqueado y devuelve la operación y el detalle a auditar.
type movement func(ctx context.Context, repos repository.TxRepos, p *entity.Product) (op string, details map[string]any, err error)

func (uc *StockUseCase) move(ctx context.Context, t StockTarget, meta dto.RequestMeta, apply movement) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		space, p, err := uc.guard.Within(repos).VerifyProductInSpaceForUpdate(ctx, t.OwnerID, t.SpaceID, t.ProductID)
		if err != nil {
			return err
		}
		op, details, err := apply(ctx, repos, p)
		if err != nil {
			return err
		}
		p.UpdatedAt = uc.clock()
		details["productName"] = p.Name
		details["spaceName"] = space.Name
		uc.audit.Record(ctx, repos.Audit, audit.Event{
			UserID:            t.OwnerID,
			EntityType:        entity.AuditEntityProduct,
			EntityID:          p.ID,
			Operation:         op,
			Details:           details,
			RelatedEntityID:   space.ID,
			RelatedEntityType: entity.AuditEntitySpace,
			Meta:              meta,
		})
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return usecase.ToProductResponse(out), nil
}
