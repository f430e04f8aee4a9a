package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// OrderHandler maneja el ciclo de vida de las órdenes de aplicación (protegido).
type OrderHandler struct {
	uc     *orders.OrderUseCase
	sheets *orders.SheetUseCase
	log    *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase, sheets *orders.SheetUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, sheets: sheets, log: log}
}

// Create godoc
// @Summary      Crear orden de aplicación desde una receta
// @Description  Calcula cantidad (dosis × área) y costo de cada insumo. No valida ni consume stock.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "parcel_id, recipe_id, area_applied"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con detalles
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        parcel_id  query  string  false  "Lote"
// @Param        recipe_id  query  string  false  "Receta"
// @Param        state      query  string  false  "PENDIENTE, APLICADA, ANULADA"
// @Param        from       query  string  false  "Creadas desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "Creadas hasta (YYYY-MM-DD)"
// @Param        q          query  string  false  "Texto en observaciones, lote o receta"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
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
	out, err := h.uc.List(c.UserContext(), dto.ListOrdersQuery{
		ParcelID: c.Query("parcel_id"),
		RecipeID: c.Query("recipe_id"),
		State:    c.Query("state"),
		From:     from,
		To:       to,
		Text:     c.Query("q"),
		Page:     page,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar orden pendiente
// @Description  Los detalles no se recalculan. El estado solo puede pasar a ANULADA.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden no aplicada
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Close godoc
// @Summary      Cerrar (aplicar) orden
// @Description  Valida stock y, en una sola transacción, descuenta cada insumo y marca la orden APLICADA.
// @Description  Si falta stock responde 409 con el detalle de cada faltante y no modifica nada.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/close [post]
func (h *OrderHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular orden pendiente
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID de la orden"
// @Param        body  body  dto.CancelOrderRequest  false  "Motivo"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ValidateStock godoc
// @Summary      Validar stock para aplicar una receta sobre un área
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateStockRequest  true  "recipe_id, area_applied"
// @Success      200   {object}  dto.StockValidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/validate-stock [post]
func (h *OrderHandler) ValidateStock(c *fiber.Ctx) error {
	var in dto.ValidateStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ValidateStock(c.UserContext(), in.RecipeID, in.AreaApplied)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de aplicaciones de un lote
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        parcel_id  path  string  true  "ID del lote"
// @Success      200  {array}   dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parcels/{parcel_id}/orders [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("parcel_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas de órdenes por fecha de aplicación
// @Description  Sin rango se usan los últimos 30 días.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.OrderStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/statistics [get]
func (h *OrderHandler) Statistics(c *fiber.Ctx) error {
	from, err := dateQuery(c, "from", false)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	to, err := dateQuery(c, "to", true)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	now := time.Now()
	if to == nil {
		to = &now
	}
	if from == nil {
		f := to.AddDate(0, 0, -30)
		from = &f
	}
	out, err := h.uc.Statistics(c.UserContext(), *from, *to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadSheet godoc
// @Summary      Descargar hoja de aplicación (PDF)
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/sheet [get]
func (h *OrderHandler) DownloadSheet(c *fiber.Ctx) error {
	pdf, filename, err := h.sheets.DownloadOrderSheet(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
