package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrEmailNotVerified   = errors.New("email no verificado")
	ErrInvalidOTP         = errors.New("código OTP inválido o expirado")
	ErrRateLimited        = errors.New("demasiadas solicitudes, intente más tarde")

	// ErrAccessDenied cubre tanto "no existe" como "pertenece a otro usuario":
	// el llamador no debe poder distinguir ambos casos.
	ErrAccessDenied = errors.New("recurso no encontrado o acceso denegado")

	ErrQuotaExceeded     = errors.New("límite máximo de espacios alcanzado")
	ErrDuplicateName     = errors.New("ya existe un espacio con ese nombre")
	ErrSpaceNotEmpty     = errors.New("el espacio contiene productos")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
)

// ValidationError error de validación de un campo concreto.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError crea un ValidationError para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError detalla el stock disponible frente al solicitado.
type InsufficientStockError struct {
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente. Actual: %d, Solicitado: %d", e.Current, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// SpaceNotEmptyError indica cuántos productos impiden eliminar el espacio.
type SpaceNotEmptyError struct {
	Products int
}

func (e *SpaceNotEmptyError) Error() string {
	return fmt.Sprintf("no se puede eliminar un espacio con %d productos. Elimine los productos primero", e.Products)
}

func (e *SpaceNotEmptyError) Unwrap() error { return ErrSpaceNotEmpty }

// QuotaExceededError indica el límite de espacios alcanzado.
type QuotaExceededError struct {
	Max int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("límite máximo de %d espacios alcanzado. Elimine un espacio existente para crear uno nuevo", e.Max)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }
