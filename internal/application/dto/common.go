package dto

import "math"

// PageRequest paginación 0-based de los listados de auditoría.
type PageRequest struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage mantiene Page*Size dentro de un int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return PageResponse{Page: p.Page, Size: p.Size, TotalElements: total, TotalPages: pages}
}

// RequestMeta origen de la petición, adjunto a cada entrada de auditoría.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ErrorResponse cuerpo de error HTTP. Reference solo se informa en errores 500.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Reference string `json:"reference,omitempty"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
