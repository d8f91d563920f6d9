package entity

import "time"

// MaxSpacesPerOwner límite duro de espacios vivos por usuario.
const MaxSpacesPerOwner = 10

// MaxNameLength longitud máxima de nombres de espacios y productos.
const MaxNameLength = 255

// Space representa un espacio (bodega, ubicación) de un usuario. Contiene productos.
// (OwnerID, Name) es único; Name se guarda sin espacios al inicio ni al final.
type Space struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpaceWithCount espacio junto con la cantidad de productos que contiene.
type SpaceWithCount struct {
	Space
	ProductCount int
}
