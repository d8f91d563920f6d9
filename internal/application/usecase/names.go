package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
)

// normalizeName recorta espacios y valida longitud (1..MaxNameLength caracteres).
func normalizeName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.NewValidationError(field, "es obligatorio")
	}
	if utf8.RuneCountInString(name) > entity.MaxNameLength {
		return "", domain.NewValidationError(field, "no puede superar 255 caracteres")
	}
	return name, nil
}
