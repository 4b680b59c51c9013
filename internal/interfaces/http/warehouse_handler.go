package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
)

// WarehouseHandler maneja las peticiones HTTP de bodegas y subbodegas (protegido).
type WarehouseHandler struct {
	uc    *usecase.WarehouseUseCase
	subUC *usecase.SubLocationUseCase
	errs  errorResponder
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase, subUC *usecase.SubLocationUseCase, errs errorResponder) *WarehouseHandler {
	return &WarehouseHandler{uc: uc, subUC: subUC, errs: errs}
}

// Create godoc
// @Summary      Crear bodega
// @Tags         bodegas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Datos de la bodega"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bodegas [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener bodega por ID
// @Tags         bodegas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bodegas/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "bodega no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar bodegas
// @Description  Ordenadas por nombre, con el número de materiales en stock de cada una.
// @Tags         bodegas
// @Security     Bearer
// @Produce      json
// @Param        incluir_inactivas  query  bool  false  "Incluir bodegas desactivadas"
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/bodegas [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryBool("incluir_inactivas", false))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar bodega
// @Tags         bodegas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la bodega"
// @Param        body  body  dto.UpdateWarehouseRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.WarehouseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bodegas/{id} [put]
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "bodega no encontrada")
	}
	return c.JSON(out)
}

// ToggleActive godoc
// @Summary      Activar o desactivar bodega
// @Tags         bodegas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Router       /api/bodegas/{id}/toggle-active [post]
func (h *WarehouseHandler) ToggleActive(c *fiber.Ctx) error {
	out, err := h.uc.ToggleActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "bodega no encontrada")
	}
	return c.JSON(out)
}

// CreateSubLocation godoc
// @Summary      Crear subbodega
// @Tags         subbodegas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSubLocationRequest  true  "Bodega, padre opcional y nombre"
// @Success      201   {object}  dto.SubLocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/subbodegas [post]
func (h *WarehouseHandler) CreateSubLocation(c *fiber.Ctx) error {
	var in dto.CreateSubLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.subUC.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSubLocation godoc
// @Summary      Obtener subbodega con su ruta completa
// @Tags         subbodegas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la subbodega"
// @Success      200  {object}  dto.SubLocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subbodegas/{id} [get]
func (h *WarehouseHandler) GetSubLocation(c *fiber.Ctx) error {
	out, err := h.subUC.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "subbodega no encontrada")
	}
	return c.JSON(out)
}

// ListSubLocations godoc
// @Summary      Listar subbodegas
// @Tags         subbodegas
// @Security     Bearer
// @Produce      json
// @Param        bodega             query  string  false  "Filtrar por bodega"
// @Param        parent             query  string  false  "Filtrar por padre; null = solo raíces"
// @Param        incluir_inactivas  query  bool    false  "Incluir subbodegas desactivadas"
// @Success      200  {array}  dto.SubLocationResponse
// @Router       /api/subbodegas [get]
func (h *WarehouseHandler) ListSubLocations(c *fiber.Ctx) error {
	out, err := h.subUC.List(c.UserContext(), dto.SubLocationListQuery{
		WarehouseID:     c.Query("bodega"),
		Parent:          c.Query("parent"),
		IncludeInactive: c.QueryBool("incluir_inactivas", false),
	})
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// UpdateSubLocation godoc
// @Summary      Renombrar, mover o activar/desactivar subbodega
// @Tags         subbodegas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la subbodega"
// @Param        body  body  dto.UpdateSubLocationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SubLocationResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/subbodegas/{id} [put]
func (h *WarehouseHandler) UpdateSubLocation(c *fiber.Ctx) error {
	var in dto.UpdateSubLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.subUC.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "subbodega no encontrada")
	}
	return c.JSON(out)
}

// ToggleSubLocation godoc
// @Summary      Activar o desactivar subbodega
// @Tags         subbodegas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la subbodega"
// @Success      200  {object}  dto.SubLocationResponse
// @Router       /api/subbodegas/{id}/toggle-active [post]
func (h *WarehouseHandler) ToggleSubLocation(c *fiber.Ctx) error {
	out, err := h.subUC.ToggleActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "subbodega no encontrada")
	}
	return c.JSON(out)
}
