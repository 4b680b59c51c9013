package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-bodegas/internal/application/bulk"
	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BulkHandler importación y exportación masiva en hojas de cálculo (protegido).
type BulkHandler struct {
	importer     *bulk.Importer
	exporter     *bulk.Exporter
	maxFileBytes int
	errs         errorResponder
}

// NewBulkHandler construye el handler.
func NewBulkHandler(importer *bulk.Importer, exporter *bulk.Exporter, maxFileBytes int, errs errorResponder) *BulkHandler {
	return &BulkHandler{importer: importer, exporter: exporter, maxFileBytes: maxFileBytes, errs: errs}
}

// Import godoc
// @Summary      Importar libro xlsx
// @Description  Hojas Marcas, Bodegas, Subbodegas, Materiales, Facturas y Movimientos, en ese orden.
// @Description  Los errores por fila se devuelven en errors; un error de base de datos revierte todo.
// @Tags         importacion
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        archivo  formData  file  true  "Libro .xlsx"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/importar [post]
func (h *BulkHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("archivo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo archivo requerido"})
	}
	if h.maxFileBytes > 0 && fh.Size > int64(h.maxFileBytes) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d bytes", h.maxFileBytes),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return h.errs.respond(c, err)
	}
	defer f.Close()

	wb, err := spreadsheet.Read(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	out, err := h.importer.Import(c.UserContext(), GetUserID(c), wb)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar todos los datos a xlsx
// @Tags         importacion
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/exportar [get]
func (h *BulkHandler) Export(c *fiber.Ctx) error {
	wb, err := h.exporter.Export(c.UserContext())
	if err != nil {
		return h.errs.respond(c, err)
	}
	return h.sendWorkbook(c, wb, fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102")))
}

// Template godoc
// @Summary      Plantilla de importación
// @Description  Encabezados y una fila de ejemplo por hoja.
// @Tags         importacion
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/exportar/plantilla [get]
func (h *BulkHandler) Template(c *fiber.Ctx) error {
	return h.sendWorkbook(c, bulk.Template(), "plantilla_importacion.xlsx")
}

func (h *BulkHandler) sendWorkbook(c *fiber.Ctx, wb *bulk.Workbook, filename string) error {
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, wb); err != nil {
		return h.errs.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
