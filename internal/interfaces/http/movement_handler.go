package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
)

// MovementHandler maneja el libro de movimientos (protegido).
type MovementHandler struct {
	uc   *inventory.RegisterMovementUseCase
	errs errorResponder
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase, errs errorResponder) *MovementHandler {
	return &MovementHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  Salidas y traslados se validan contra el stock del bucket origen.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse  "fields: {campo_o_general: mensaje}"
// @Failure      422   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/movimientos [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "movimiento no encontrado")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar movimiento
// @Description  Parche parcial; se revalida excluyendo el aporte del propio movimiento.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Tags         movimientos
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar movimientos por fecha descendente
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        material  query  string  false  "ID del material"
// @Param        bodega    query  string  false  "ID de bodega (origen o destino)"
// @Param        tipo      query  string  false  "Entrada, Salida, Traslado, Edicion, Ajuste, Devolucion"
// @Param        desde     query  string  false  "Fecha inicial (YYYY-MM-DD o RFC3339)"
// @Param        hasta     query  string  false  "Fecha final (YYYY-MM-DD o RFC3339)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	from, err := queryDate(c, "desde", false)
	if err != nil {
		return h.errs.respond(c, err)
	}
	to, err := queryDate(c, "hasta", true)
	if err != nil {
		return h.errs.respond(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.MovementListQuery{
		MaterialID:  c.Query("material"),
		WarehouseID: c.Query("bodega"),
		Type:        c.Query("tipo"),
		From:        from,
		To:          to,
		PageRequest: pageFromQuery(c),
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// queryDate acepta RFC3339 o fecha sola; con endOfDay la fecha sola cubre el día completo.
func queryDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
