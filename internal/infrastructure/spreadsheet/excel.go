// Package spreadsheet lee y escribe el libro de inventario en formato xlsx con excelize.
//
// Las columnas se localizan por el texto de la cabecera (sin distinguir mayúsculas ni tildes),
// así que el orden de las columnas en el archivo es libre.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-bodegas/internal/application/bulk"
)

// DateLayout formato de fecha escrito en las hojas.
const DateLayout = "2006-01-02 15:04:05"

// Cabeceras por hoja, en el orden en que se escriben.
var (
	brandHeaders       = []string{"ID", "Nombre", "Activo"}
	warehouseHeaders   = []string{"ID", "Nombre", "Ubicación", "Activo"}
	subLocationHeaders = []string{"ID", "Nombre", "Bodega", "Subbodega Padre", "Activo"}
	materialHeaders    = []string{"ID", "Código", "Código Barras", "Referencia", "Nombre", "Unidad", "Marca", "Último Precio"}
	invoiceHeaders     = []string{"ID", "Número", "Proveedor", "Fecha"}
	movementHeaders    = []string{
		"ID", "Fecha", "Tipo", "Material", "Cantidad", "Bodega", "Subbodega",
		"Bodega Destino", "Subbodega Destino", "Marca", "Factura", "Factura Manual",
		"Precio Unitario", "Observaciones",
	}
)

// ===========================================================================
// Escritura
// ===========================================================================

// Write escribe el libro con una hoja por entidad.
func Write(w io.Writer, wb *bulk.Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("estilo de cabecera: %w", err)
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
	}{
		{bulk.SheetBrands, brandHeaders, brandRows(wb.Brands)},
		{bulk.SheetWarehouses, warehouseHeaders, warehouseRows(wb.Warehouses)},
		{bulk.SheetSubLocations, subLocationHeaders, subLocationRows(wb.SubLocations)},
		{bulk.SheetMaterials, materialHeaders, materialRows(wb.Materials)},
		{bulk.SheetInvoices, invoiceHeaders, invoiceRows(wb.Invoices)},
		{bulk.SheetMovements, movementHeaders, movementRows(wb.Movements)},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		header := make([]any, len(s.headers))
		for j, h := range s.headers {
			header[j] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return err
		}
		if err := f.SetRowStyle(s.name, 1, 1, bold); err != nil {
			return err
		}
		for j, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return err
			}
		}
		last, err := excelize.ColumnNumberToName(len(s.headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, "A", last, 18); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func brandRows(in []bulk.BrandRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{r.ID, r.Name, boolCell(r.Active)})
	}
	return out
}

func warehouseRows(in []bulk.WarehouseRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{r.ID, r.Name, r.Location, boolCell(r.Active)})
	}
	return out
}

func subLocationRows(in []bulk.SubLocationRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{r.ID, r.Name, r.Warehouse, r.Parent, boolCell(r.Active)})
	}
	return out
}

func materialRows(in []bulk.MaterialRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{r.ID, r.Code, r.Barcode, r.Reference, r.Name, r.Unit, r.Brand, decimalCell(r.LastPrice)})
	}
	return out
}

func invoiceRows(in []bulk.InvoiceRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{r.ID, r.Number, r.Supplier, dateCell(r.Date)})
	}
	return out
}

func movementRows(in []bulk.MovementRow) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, []any{
			r.ID, dateCell(r.Date), r.Type, r.Material, r.Quantity, r.Warehouse, r.SubLocation,
			r.DestinationWarehouse, r.DestinationSubLocation, r.Brand, r.Invoice, r.InvoiceManual,
			decimalCell(r.UnitPrice), r.Notes,
		})
	}
	return out
}

func boolCell(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Sí"
	default:
		return "No"
	}
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// dateCell las fechas se escriben como texto UTC para no perder la hora al reimportar.
func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// ===========================================================================
// Lectura
// ===========================================================================

// Read lee un libro xlsx. Las hojas ausentes se tratan como vacías; las celdas ilegibles
// descartan su fila y quedan en Workbook.Errors.
func Read(r io.Reader) (*bulk.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	wb := &bulk.Workbook{}
	err = eachRow(f, bulk.SheetBrands, &wb.Errors, func(c *cursor) {
		row := bulk.BrandRow{Row: c.row, ID: c.str("ID"), Name: c.str("Nombre"), Active: c.boolean("Activo")}
		if c.ok() {
			wb.Brands = append(wb.Brands, row)
		}
	})
	if err != nil {
		return nil, err
	}
	err = eachRow(f, bulk.SheetWarehouses, &wb.Errors, func(c *cursor) {
		row := bulk.WarehouseRow{
			Row: c.row, ID: c.str("ID"), Name: c.str("Nombre"), Location: c.str("Ubicación"), Active: c.boolean("Activo"),
		}
		if c.ok() {
			wb.Warehouses = append(wb.Warehouses, row)
		}
	})
	if err != nil {
		return nil, err
	}
	err = eachRow(f, bulk.SheetSubLocations, &wb.Errors, func(c *cursor) {
		row := bulk.SubLocationRow{
			Row:       c.row,
			ID:        c.str("ID"),
			Name:      c.str("Nombre"),
			Warehouse: c.str("Bodega"),
			Parent:    c.str("Subbodega Padre"),
			Active:    c.boolean("Activo"),
		}
		if c.ok() {
			wb.SubLocations = append(wb.SubLocations, row)
		}
	})
	if err != nil {
		return nil, err
	}
	err = eachRow(f, bulk.SheetMaterials, &wb.Errors, func(c *cursor) {
		row := bulk.MaterialRow{
			Row:       c.row,
			ID:        c.str("ID"),
			Code:      c.str("Código"),
			Barcode:   c.str("Código Barras"),
			Reference: c.str("Referencia"),
			Name:      c.str("Nombre"),
			Unit:      c.str("Unidad"),
			Brand:     c.str("Marca"),
			LastPrice: c.decimal("Último Precio"),
		}
		if c.ok() {
			wb.Materials = append(wb.Materials, row)
		}
	})
	if err != nil {
		return nil, err
	}
	err = eachRow(f, bulk.SheetInvoices, &wb.Errors, func(c *cursor) {
		row := bulk.InvoiceRow{
			Row: c.row, ID: c.str("ID"), Number: c.str("Número"), Supplier: c.str("Proveedor"), Date: c.date("Fecha"),
		}
		if c.ok() {
			wb.Invoices = append(wb.Invoices, row)
		}
	})
	if err != nil {
		return nil, err
	}
	err = eachRow(f, bulk.SheetMovements, &wb.Errors, func(c *cursor) {
		row := bulk.MovementRow{
			Row:                    c.row,
			ID:                     c.str("ID"),
			Date:                   c.date("Fecha"),
			Type:                   c.str("Tipo"),
			Material:               c.str("Material"),
			Quantity:               c.integer("Cantidad"),
			Warehouse:              c.str("Bodega"),
			SubLocation:            c.str("Subbodega"),
			DestinationWarehouse:   c.str("Bodega Destino"),
			DestinationSubLocation: c.str("Subbodega Destino"),
			Brand:                  c.str("Marca"),
			Invoice:                c.str("Factura"),
			InvoiceManual:          c.str("Factura Manual"),
			UnitPrice:              c.decimal("Precio Unitario"),
			Notes:                  c.str("Observaciones"),
		}
		if c.ok() {
			wb.Movements = append(wb.Movements, row)
		}
	})
	if err != nil {
		return nil, err
	}
	return wb, nil
}

// eachRow recorre las filas de datos no vacías de la hoja.
func eachRow(f *excelize.File, sheet string, errs *[]bulk.RowError, fn func(c *cursor)) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return nil
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}
	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[headerKey(h)] = i
	}
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		c := &cursor{sheet: sheet, header: header, cells: cells, row: i + 2}
		fn(c)
		if c.err != nil {
			*errs = append(*errs, *c.err)
		}
	}
	return nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// headerKey minúsculas y sin tildes: "Código Barras" -> "codigo barras".
func headerKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// cursor acceso tipado a las celdas de una fila. Solo guarda el primer error.
type cursor struct {
	sheet  string
	header map[string]int
	cells  []string
	row    int
	err    *bulk.RowError
}

func (c *cursor) ok() bool { return c.err == nil }

func (c *cursor) fail(col, msg string) {
	if c.err == nil {
		c.err = &bulk.RowError{Sheet: c.sheet, Row: c.row, Message: col + ": " + msg}
	}
}

func (c *cursor) str(col string) string {
	i, ok := c.header[headerKey(col)]
	if !ok || i >= len(c.cells) {
		return ""
	}
	return strings.TrimSpace(c.cells[i])
}

func (c *cursor) boolean(col string) *bool {
	v := headerKey(c.str(col))
	var b bool
	switch v {
	case "":
		return nil
	case "si", "true", "1", "verdadero", "x":
		b = true
	case "no", "false", "0", "falso":
		b = false
	default:
		c.fail(col, "valor booleano inválido: "+v)
		return nil
	}
	return &b
}

func (c *cursor) integer(col string) int64 {
	v := c.str(col)
	if v == "" {
		return 0
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.Equal(d.Truncate(0)) {
		c.fail(col, "no es un número entero: "+v)
		return 0
	}
	return d.IntPart()
}

func (c *cursor) decimal(col string) *decimal.Decimal {
	v := c.str(col)
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		c.fail(col, "no es un número: "+v)
		return nil
	}
	return &d
}

var dateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "02/01/2006"}

// date acepta texto en los formatos conocidos o el número de serie de Excel.
func (c *cursor) date(col string) *time.Time {
	v := c.str(col)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			t = t.Round(time.Second)
			return &t
		}
	}
	c.fail(col, "fecha inválida: "+v)
	return nil
}
