// Package inventory contiene las reglas puras del stock de un producto:
// transiciones (add/remove/set) y propiedades derivadas que nunca se persisten.
package inventory

import (
	"fmt"
	"math"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// MaxStock tope del stock y de los umbrales; las columnas son INTEGER.
const MaxStock = math.MaxInt32

// Estados de stock para reportes.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Severidad de una alerta de stock bajo.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// IsLowStock es true solo si hay mínimo configurado y el stock está en o por debajo de él.
// Sin mínimo nunca es stock bajo, aunque el stock sea 0.
func IsLowStock(currentStock int, minimum *int) bool {
	return minimum != nil && currentStock <= *minimum
}

// ProductIsLowStock atajo sobre la entidad.
func ProductIsLowStock(p *entity.Product) bool {
	return IsLowStock(p.CurrentStock, p.MinimumQuantity)
}

// ApplyAdd suma q unidades. MaximumQuantity es informativo; el único tope es MaxStock.
func ApplyAdd(current, q int) (int, error) {
	if q < 1 {
		return current, domain.ErrInvalidQuantity
	}
	if q > MaxStock-current {
		return current, domain.NewValidationError("quantity", fmt.Sprintf("el stock no puede superar %d", MaxStock))
	}
	return current + q, nil
}

// ApplyRemove resta q unidades; el stock nunca puede quedar negativo.
func ApplyRemove(current, q int) (int, error) {
	if q < 1 {
		return current, domain.ErrInvalidQuantity
	}
	if q > current {
		return current, &domain.InsufficientStockError{Current: current, Requested: q}
	}
	return current - q, nil
}

// ApplySet sobrescribe el stock con q (0 <= q <= MaxStock).
func ApplySet(current, q int) (int, error) {
	if err := ValidateLevel("current_stock", q); err != nil {
		return current, err
	}
	return q, nil
}

// ValidateLevel valida una cantidad absoluta: stock inicial, mínimo o máximo.
func ValidateLevel(field string, v int) error {
	if v < 0 {
		return domain.NewValidationError(field, "no puede ser negativo")
	}
	if v > MaxStock {
		return domain.NewValidationError(field, fmt.Sprintf("no puede superar %d", MaxStock))
	}
	return nil
}

// Status clasifica el producto: agotado tiene prioridad sobre stock bajo.
func Status(p *entity.Product) string {
	switch {
	case p.CurrentStock == 0:
		return StatusOutOfStock
	case ProductIsLowStock(p):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Severity gravedad de la alerta según la proporción stock/mínimo.
func Severity(p *entity.Product) string {
	if p.CurrentStock == 0 {
		return SeverityCritical
	}
	if p.MinimumQuantity != nil && *p.MinimumQuantity > 0 {
		ratio := float64(p.CurrentStock) / float64(*p.MinimumQuantity)
		switch {
		case ratio <= 0.5:
			return SeverityHigh
		case ratio <= 0.8:
			return SeverityMedium
		}
	}
	return SeverityLow
}

// HealthScore puntaje 0..100 de un conjunto de productos:
// 100 − 30×(proporción stock bajo) − 50×(proporción agotados). Un conjunto vacío vale 100.
func HealthScore(products []*entity.Product) float64 {
	if len(products) == 0 {
		return 100
	}
	var low, out int
	for _, p := range products {
		if ProductIsLowStock(p) {
			low++
		}
		if p.CurrentStock == 0 {
			out++
		}
	}
	total := float64(len(products))
	score := 100 - float64(low)/total*30 - float64(out)/total*50
	if score < 0 {
		return 0
	}
	return Round2(score)
}
