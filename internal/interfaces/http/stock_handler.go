package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
)

// StockHandler consultas de existencias derivadas del libro (protegido).
type StockHandler struct {
	query  *inventory.StockQueryUseCase
	report *inventory.StockReportUseCase
	errs   errorResponder
}

// NewStockHandler construye el handler.
func NewStockHandler(query *inventory.StockQueryUseCase, report *inventory.StockReportUseCase, errs errorResponder) *StockHandler {
	return &StockHandler{query: query, report: report, errs: errs}
}

// WarehouseStock godoc
// @Summary      Stock de una bodega
// @Description  Filas con cantidad distinta de cero; con subbodega incluye sus descendientes.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID de la bodega"
// @Param        subbodega  query  string  false  "Limitar al subárbol de esta subbodega"
// @Success      200  {object}  dto.WarehouseStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bodegas/{id}/stock [get]
func (h *StockHandler) WarehouseStock(c *fiber.Ctx) error {
	out, err := h.query.WarehouseStock(c.UserContext(), c.Params("id"), c.Query("subbodega"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// StockPDF godoc
// @Summary      Reporte PDF de existencias de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id         path   string  true   "ID de la bodega"
// @Param        subbodega  query  string  false  "Limitar al subárbol de esta subbodega"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bodegas/{id}/stock.pdf [get]
func (h *StockHandler) StockPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.report.Download(c.UserContext(), c.Params("id"), c.Query("subbodega"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// Summary godoc
// @Summary      Resumen de inventario
// @Description  Todos los buckets con stock distinto de cero, con nivel (Alto/Medio/Bajo) y costo promedio.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventorySummaryItem
// @Router       /api/resumen-inventario [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	out, err := h.query.Summary(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}
