package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// InventoryHandler maneja insumos, movimientos y reposición (protegido).
type InventoryHandler struct {
	items         *inventory.ItemUseCase
	ledger        *inventory.Ledger
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *inventory.ItemUseCase, ledger *inventory.Ledger, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{items: items, ledger: ledger, replenishment: replenishment, log: log}
}

// CreateItem godoc
// @Summary      Crear insumo
// @Description  El stock inicial, si viene, se registra como un movimiento de ENTRADA.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del insumo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/items [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetItem godoc
// @Summary      Obtener insumo con movimientos recientes y alertas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ItemDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Listar insumos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        active    query  bool    false  "Filtrar por activo"
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "DISPONIBLE, BAJO, CRITICO, AGOTADO, PROXIMO_VENCER, VENCIDO"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	active, err := boolQuery(c, "active")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.items.List(c.UserContext(), active, c.Query("category"), c.Query("status"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SearchItems godoc
// @Summary      Buscar insumos por código o nombre (sin distinguir acentos)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  true   "Texto"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200  {array}   dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/search [get]
func (h *InventoryHandler) SearchItems(c *fiber.Ctx) error {
	out, err := h.items.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar insumo (no modifica stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del insumo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [put]
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar insumo
// @Description  Sin historial se elimina; con movimientos se desactiva. Con órdenes abiertas responde 409.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	deactivated, err := h.items.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"deleted": !deactivated, "deactivated": deactivated})
}

// Statistics godoc
// @Summary      Estadísticas del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/inventory/statistics [get]
func (h *InventoryHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.items.Statistics(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "ID del insumo"
// @Param        type     query  string  false  "Tipo de movimiento"
// @Param        from     query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to       query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.items.ListMovements(c.UserContext(), c.Query("item_id"), c.Query("type"), from, to, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Insumos activos en estado BAJO, CRITICO o AGOTADO con la cantidad sugerida de compra,
//
//	priorizados por severidad y consumo de los últimos 90 días.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
