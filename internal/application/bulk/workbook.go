// Package bulk importa y exporta el inventario completo como un libro de hojas.
//
// El adaptador de hojas de cálculo entrega filas tipadas con referencias por ID o por
// clave natural; aquí se resuelven, se validan con las mismas reglas de la API y se
// escriben en una sola transacción.
package bulk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Nombres de hoja, en orden de dependencia.
const (
	SheetBrands       = "Marcas"
	SheetWarehouses   = "Bodegas"
	SheetSubLocations = "Subbodegas"
	SheetMaterials    = "Materiales"
	SheetInvoices     = "Facturas"
	SheetMovements    = "Movimientos"
)

// SheetOrder orden de importación y de exportación.
var SheetOrder = []string{
	SheetBrands, SheetWarehouses, SheetSubLocations, SheetMaterials, SheetInvoices, SheetMovements,
}

// BrandRow fila de la hoja Marcas.
type BrandRow struct {
	Row    int
	ID     string
	Name   string
	Active *bool
}

// WarehouseRow fila de la hoja Bodegas.
type WarehouseRow struct {
	Row      int
	ID       string
	Name     string
	Location string
	Active   *bool
}

// SubLocationRow fila de la hoja Subbodegas. Warehouse es ID o nombre de bodega;
// Parent es ID o ruta completa ("Estante 3 > Fila 1") dentro de esa bodega.
type SubLocationRow struct {
	Row       int
	ID        string
	Name      string
	Warehouse string
	Parent    string
	Active    *bool
}

// MaterialRow fila de la hoja Materiales. Brand es ID o nombre.
type MaterialRow struct {
	Row       int
	ID        string
	Code      string
	Barcode   string
	Reference string
	Name      string
	Unit      string
	Brand     string
	LastPrice *decimal.Decimal
}

// InvoiceRow fila de la hoja Facturas.
type InvoiceRow struct {
	Row      int
	ID       string
	Number   string
	Supplier string
	Date     *time.Time
}

// MovementRow fila de la hoja Movimientos. Material es ID o código, bodegas por ID o nombre,
// subbodegas por ID o ruta, marca por ID o nombre y factura por ID o número.
type MovementRow struct {
	Row                    int
	ID                     string
	Date                   *time.Time
	Type                   string
	Material               string
	Quantity               int64
	Warehouse              string
	SubLocation            string
	DestinationWarehouse   string
	DestinationSubLocation string
	Brand                  string
	Invoice                string
	InvoiceManual          string
	UnitPrice              *decimal.Decimal
	Notes                  string
}

// RowError error asociado a una fila de una hoja.
type RowError struct {
	Sheet   string
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("%s fila %d: %s", e.Sheet, e.Row, e.Message)
}

// Workbook contenido tipado de un libro. Errors guarda las celdas que el adaptador no pudo leer;
// esas filas ya vienen descartadas.
type Workbook struct {
	Brands       []BrandRow
	Warehouses   []WarehouseRow
	SubLocations []SubLocationRow
	Materials    []MaterialRow
	Invoices     []InvoiceRow
	Movements    []MovementRow
	Errors       []RowError
}

// Template libro con una fila de ejemplo por hoja.
func Template() *Workbook {
	active := true
	date := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(12500)
	return &Workbook{
		Brands:     []BrandRow{{Row: 2, Name: "Acme", Active: &active}},
		Warehouses: []WarehouseRow{{Row: 2, Name: "Bodega Central", Location: "Calle 10 # 5-20", Active: &active}},
		SubLocations: []SubLocationRow{
			{Row: 2, Name: "Estante 3", Warehouse: "Bodega Central", Active: &active},
		},
		Materials: []MaterialRow{
			{Row: 2, Code: "CAB-01", Reference: "THHN 12", Name: "Cable 12 AWG", Unit: "m", Brand: "Acme"},
		},
		Invoices: []InvoiceRow{{Row: 2, Number: "FV-0001", Supplier: "Proveedor S.A.S.", Date: &date}},
		Movements: []MovementRow{{
			Row:         2,
			Date:        &date,
			Type:        "Entrada",
			Material:    "CAB-01",
			Quantity:    100,
			Warehouse:   "Bodega Central",
			SubLocation: "Estante 3",
			Brand:       "Acme",
			Invoice:     "FV-0001",
			UnitPrice:   &price,
		}},
	}
}
