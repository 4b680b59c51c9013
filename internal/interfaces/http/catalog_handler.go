package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
)

// CatalogHandler marcas, unidades de medida y facturas de proveedor (protegido).
type CatalogHandler struct {
	brands   *usecase.BrandUseCase
	units    *usecase.UnitUseCase
	invoices *usecase.InvoiceUseCase
	errs     errorResponder
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(brands *usecase.BrandUseCase, units *usecase.UnitUseCase, invoices *usecase.InvoiceUseCase, errs errorResponder) *CatalogHandler {
	return &CatalogHandler{brands: brands, units: units, invoices: invoices, errs: errs}
}

// ── Marcas ────────────────────────────────────────────────────────────────────

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         marcas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BrandRequest  true  "Nombre de la marca"
// @Success      201   {object}  dto.BrandResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/marcas [post]
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.BrandRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.brands.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands godoc
// @Summary      Listar marcas
// @Tags         marcas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BrandResponse
// @Router       /api/marcas [get]
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.brands.List(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	out, err := h.brands.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "marca no encontrada")
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateBrand(c *fiber.Ctx) error {
	var in dto.BrandRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.brands.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "marca no encontrada")
	}
	return c.JSON(out)
}

// DeleteBrand godoc
// @Summary      Eliminar marca
// @Description  Materiales y movimientos que la usan quedan sin marca.
// @Tags         marcas
// @Security     Bearer
// @Param        id   path  string  true  "ID de la marca"
// @Success      204
// @Router       /api/marcas/{id} [delete]
func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	if err := h.brands.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Unidades de medida ────────────────────────────────────────────────────────

// CreateUnit godoc
// @Summary      Crear unidad de medida
// @Tags         unidades
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnitRequest  true  "Nombre y abreviatura"
// @Success      201   {object}  dto.UnitResponse
// @Router       /api/unidades [post]
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.units.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	out, err := h.units.List(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetUnit(c *fiber.Ctx) error {
	out, err := h.units.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "unidad no encontrada")
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateUnit(c *fiber.Ctx) error {
	var in dto.UnitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.units.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "unidad no encontrada")
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteUnit(c *fiber.Ctx) error {
	if err := h.units.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Facturas de proveedor ─────────────────────────────────────────────────────

// CreateInvoice godoc
// @Summary      Registrar factura de proveedor
// @Tags         facturas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Número, proveedor y fecha"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facturas [post]
func (h *CatalogHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInvoices godoc
// @Summary      Listar facturas por fecha descendente
// @Tags         facturas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/facturas [get]
func (h *CatalogHandler) ListInvoices(c *fiber.Ctx) error {
	out, err := h.invoices.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.invoices.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "factura no encontrada")
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	if out == nil {
		return notFound(c, "factura no encontrada")
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteInvoice(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
