package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// AlertHandler maneja las alertas de inventario.
type AlertHandler struct {
	uc  *inventory.AlertUseCase
	log *logger.Logger
}

func NewAlertHandler(uc *inventory.AlertUseCase, log *logger.Logger) *AlertHandler {
	return &AlertHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar alertas vigentes
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        read    query  bool  false  "Filtrar por leídas/no leídas"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	read, err := boolQuery(c, "read")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.List(c.UserContext(), read, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
