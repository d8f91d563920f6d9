package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto dentro de un espacio.
// CurrentStock nunca es negativo; MinimumQuantity y MaximumQuantity son opcionales.
// MaximumQuantity es solo informativo: no limita las entradas de stock.
type Product struct {
	ID              string
	SpaceID         string
	Name            string
	Price           decimal.Decimal
	CurrentStock    int
	MinimumQuantity *int
	MaximumQuantity *int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// SpaceName se completa en lecturas con JOIN; no se persiste en products.
	SpaceName string
}

// Value valor del inventario del producto (precio × stock).
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}
