package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o debajo de su mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	SpaceID            string          `json:"space_id"`
	SpaceName          string          `json:"space_name"`
	CurrentStock       int             `json:"current_stock"`
	MinimumQuantity    int             `json:"minimum_quantity"`
	TargetStock        int             `json:"target_stock"`        // máximo si existe; si no, mínimo × 1.5
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // TargetStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Severity           string          `json:"severity"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// ReplenishmentListResponse lista priorizada de reposición.
type ReplenishmentListResponse struct {
	Items              []ReplenishmentSuggestionDTO `json:"items"`
	TotalEstimatedCost decimal.Decimal              `json:"total_estimated_cost"`
}
