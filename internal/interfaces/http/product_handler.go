package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/inventory"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/usecase"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// ProductHandler maneja productos, movimientos de stock y la lista de reposición.
type ProductHandler struct {
	uc            *usecase.ProductUseCase
	stock         *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(
	uc *usecase.ProductUseCase,
	stock *inventory.StockUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	log *logger.Logger,
) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock, replenishment: replenishment, log: log}
}

// Create godoc
// @Summary      Crear producto en un espacio
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId  path  string  true  "ID del espacio"
// @Param        body     body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), c.Params("spaceId"), in, RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBySpace godoc
// @Summary      Listar productos de un espacio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        spaceId  path   string  true   "ID del espacio"
// @Param        search   query  string  false  "Filtro por nombre"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/spaces/{spaceId}/products [get]
func (h *ProductHandler) ListBySpace(c *fiber.Ctx) error {
	out, err := h.uc.ListBySpace(c.UserContext(), GetUserID(c), c.Params("spaceId"), c.Query("search"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStockInSpace godoc
// @Summary      Productos con stock bajo en un espacio
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        spaceId  path  string  true  "ID del espacio"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/spaces/{spaceId}/products/low-stock [get]
func (h *ProductHandler) LowStockInSpace(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), GetUserID(c), c.Params("spaceId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products/{productId} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), c.Params("spaceId"), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Solo se aplican los campos informados. El stock se cambia con los endpoints de stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products/{productId} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("spaceId"), c.Params("productId"), in, RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products/{productId} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("spaceId"), c.Params("productId"), RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddStock godoc
// @Summary      Sumar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.StockQuantityRequest  true  "quantity >= 1"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products/{productId}/stock/add [post]
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	return h.moveStock(c, h.stock.AddStock)
}

// RemoveStock godoc
// @Summary      Restar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.StockQuantityRequest  true  "quantity >= 1"
// @Success      200  {object}  dto.ProductResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/spaces/{spaceId}/products/{productId}/stock/remove [post]
func (h *ProductHandler) RemoveStock(c *fiber.Ctx) error {
	return h.moveStock(c, h.stock.RemoveStock)
}

// SetStock godoc
// @Summary      Fijar stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        spaceId    path  string  true  "ID del espacio"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.StockQuantityRequest  true  "quantity >= 0"
// @Success      200  {object}  dto.ProductResponse
// @Router       /api/spaces/{spaceId}/products/{productId}/stock [put]
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	return h.moveStock(c, h.stock.SetStock)
}

type stockOp func(ctx context.Context, t inventory.StockTarget, quantity int, meta dto.RequestMeta) (*dto.ProductResponse, error)

func (h *ProductHandler) moveStock(c *fiber.Ctx, op stockOp) error {
	var in dto.StockQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	target := inventory.StockTarget{
		OwnerID:   GetUserID(c),
		SpaceID:   c.Params("spaceId"),
		ProductID: c.Params("productId"),
	}
	out, err := op(c.UserContext(), target, in.Quantity, RequestMeta(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListAll godoc
// @Summary      Productos de todos los espacios
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Filtro por nombre"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext(), GetUserID(c), c.Query("search"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        spaceId  query  string  false  "Restringir a un espacio"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), GetUserID(c), c.Query("spaceId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición sugerida
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        spaceId  query  string  false  "Restringir a un espacio"
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Router       /api/products/replenishment [get]
func (h *ProductHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), GetUserID(c), c.Query("spaceId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
