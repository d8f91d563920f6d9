package dto

import "time"

// CreateSpaceRequest entrada para crear un espacio.
type CreateSpaceRequest struct {
	Name string `json:"name"`
}

// UpdateSpaceRequest entrada para renombrar un espacio.
type UpdateSpaceRequest struct {
	Name string `json:"name"`
}

// SpaceResponse salida de un espacio con su cantidad de productos.
type SpaceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SpaceListResponse lista de espacios del usuario.
type SpaceListResponse struct {
	Items []SpaceResponse `json:"items"`
	Total int             `json:"total"`
}

// SpaceQuotaResponse uso de la cuota de espacios.
type SpaceQuotaResponse struct {
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	Remaining int  `json:"remaining"`
	CanCreate bool `json:"can_create"`
}
