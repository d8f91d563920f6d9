package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto en un espacio.
type CreateProductRequest struct {
	Name            string           `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	InitialStock    int              `json:"initial_stock"`
	MinimumQuantity *int             `json:"minimum_quantity"`
	MaximumQuantity *int             `json:"maximum_quantity"`
}

// UpdateProductRequest campos opcionales; solo se aplican los informados y distintos al valor actual.
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	MinimumQuantity *int             `json:"minimum_quantity"`
	MaximumQuantity *int             `json:"maximum_quantity"`
}

// StockQuantityRequest cantidad para add/remove/set de stock.
type StockQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ProductResponse salida de un producto con sus campos derivados.
type ProductResponse struct {
	ID              string          `json:"id"`
	SpaceID         string          `json:"space_id"`
	SpaceName       string          `json:"space_name"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	CurrentStock    int             `json:"current_stock"`
	MinimumQuantity *int            `json:"minimum_quantity"`
	MaximumQuantity *int            `json:"maximum_quantity"`
	IsLowStock      bool            `json:"is_low_stock"`
	StockStatus     string          `json:"stock_status"`
	Value           decimal.Decimal `json:"value"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
