package inventory

import (
	"context"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/access"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	stock "github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/repository"
)

// idealStockFactor objetivo de reposición cuando el producto no tiene máximo.
const idealStockFactor = 1.5

var severityRank = map[string]int{
	stock.SeverityCritical: 0,
	stock.SeverityHigh:     1,
	stock.SeverityMedium:   2,
	stock.SeverityLow:      3,
}

// ReplenishmentUseCase genera la lista de reposición a partir de los productos con stock bajo.
// Solo sugiere: el máximo sigue siendo informativo y no limita las entradas.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	guard    *access.Guard
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, guard *access.Guard) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, guard: guard}
}

// GenerateReplenishmentList devuelve los productos en o debajo del mínimo con la cantidad sugerida
// de pedido, ordenados por severidad y luego por mayor costo estimado.
// spaceID puede ser vacío para considerar todos los espacios del usuario.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, ownerID, spaceID string) (*dto.ReplenishmentListResponse, error) {
	if spaceID != "" {
		if _, err := uc.guard.VerifyOwnership(ctx, ownerID, spaceID); err != nil {
			return nil, err
		}
	}
	low, err := uc.products.ListLowStock(ctx, ownerID, spaceID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		minimum := *p.MinimumQuantity
		target := int(math.Ceil(float64(minimum) * idealStockFactor))
		if p.MaximumQuantity != nil {
			target = *p.MaximumQuantity
		}
		qty := max(target-p.CurrentStock, 0)
		cost := p.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		total = total.Add(cost)

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			ProductName:        p.Name,
			SpaceID:            p.SpaceID,
			SpaceName:          p.SpaceName,
			CurrentStock:       p.CurrentStock,
			MinimumQuantity:    minimum,
			TargetStock:        target,
			SuggestedOrderQty:  qty,
			UnitPrice:          p.Price,
			EstimatedOrderCost: cost,
			Severity:           stock.Severity(p),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return &dto.ReplenishmentListResponse{Items: suggestions, TotalEstimatedCost: total}, nil
}
