// Package pdf genera el reporte de existencias de una bodega con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + alcance      │  Reporte de existencias     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Material | Ref. | Ubicación | Cant. | Und.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: materiales distintos / filas                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 235, Green: 241, Blue: 247}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa inventory.StockReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStockReport genera el PDF de existencias y devuelve sus bytes.
// scope es la ruta de la subbodega consultada ("" = toda la bodega).
func (g *MarotoPDFGenerator) GenerateStockReport(
	_ context.Context,
	report *dto.WarehouseStockResponse,
	scope string,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de existencias - "+report.WarehouseName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report, scope, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin existencias registradas.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	m.AddRows(tableDetailRows(report.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(report.Items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega y alcance (izq), título y fecha (der).
func headerRow(report *dto.WarehouseStockResponse, scope string, generatedAt time.Time) core.Row {
	if scope == "" {
		scope = "Toda la bodega"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(report.WarehouseName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Ubicación: "+scope, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Material", 3, align.Left),
		h("Ref.", 2, align.Left),
		h("Ubicación", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Und.", 1, align.Center),
	)
}

// tableDetailRows: una fila por bucket, con franjas alternas.
func tableDetailRows(items []dto.StockItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		r := row.New(7).Add(
			col.New(2).Add(text.New(it.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Reference, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.SubLocationFullPath, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatQuantity(it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

// summaryRow: materiales distintos y número de ubicaciones con stock.
func summaryRow(items []dto.StockItemResponse) core.Row {
	materials := map[string]struct{}{}
	for _, it := range items {
		materials[it.MaterialID] = struct{}{}
	}
	return row.New(10).Add(
		col.New(6),
		col.New(6).Add(text.New(
			fmt.Sprintf("Materiales: %d   |   Filas: %d", len(materials), len(items)),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1},
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQuantity inserta puntos de miles. Ej: 25000 → "25.000", -1500 → "-1.500".
func formatQuantity(q int64) string {
	s := strconv.FormatInt(q, 10)
	sign := ""
	if q < 0 {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
