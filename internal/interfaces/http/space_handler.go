package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// SpaceHandler maneja los espacios del usuario autenticado.
type SpaceHandler struct {
	uc  *usecase.SpaceUseCase
	log *logger.Logger
}

// NewSpaceHandler construye el handler.
func NewSpaceHandler(uc *usecase.SpaceUseCase, log *logger.Logger) *SpaceHandler {
	return &SpaceHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear espacio
// @Tags         spaces
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSpaceRequest  true  "name"
// @Success      201   {object}  dto.SpaceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/spaces [post]
func (h *SpaceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSpaceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in, RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar espacios
// @Tags         spaces
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SpaceListResponse
// @Router       /api/spaces [get]
func (h *SpaceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Quota godoc
// @Summary      Cuota de espacios
// @Tags         spaces
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SpaceQuotaResponse
// @Router       /api/spaces/creation-status [get]
func (h *SpaceHandler) Quota(c *fiber.Ctx) error {
	out, err := h.uc.Quota(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener espacio
// @Tags         spaces
// @Security     Bearer
// @Produce      json
// @Param        spaceId  path  string  true  "ID del espacio"
// @Success      200  {object}  dto.SpaceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId} [get]
func (h *SpaceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("spaceId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar espacio
// @Tags         spaces
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId  path  string  true  "ID del espacio"
// @Param        body     body  dto.UpdateSpaceRequest  true  "name"
// @Success      200  {object}  dto.SpaceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId} [put]
func (h *SpaceHandler) Rename(c *fiber.Ctx) error {
	var in dto.UpdateSpaceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Rename(c.UserContext(), GetUserID(c), c.Params("spaceId"), in, RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar espacio vacío
// @Tags         spaces
// @Security     Bearer
// @Param        spaceId  path  string  true  "ID del espacio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId} [delete]
func (h *SpaceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("spaceId"), RequestMeta(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
