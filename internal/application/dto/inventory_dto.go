package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/movimientos.
// Los campos de destino solo aplican a traslados.
type RegisterMovementRequest struct {
	MaterialID               string           `json:"material_id"`
	Type                     string           `json:"type"`
	WarehouseID              string           `json:"warehouse_id"`
	SubLocationID            string           `json:"sub_location_id,omitempty"`
	DestinationWarehouseID   string           `json:"destination_warehouse_id,omitempty"`
	DestinationSubLocationID string           `json:"destination_sub_location_id,omitempty"`
	Quantity                 int64            `json:"quantity"`
	BrandID                  *string          `json:"brand_id,omitempty"`
	InvoiceID                *string          `json:"invoice_id,omitempty"`
	InvoiceManual            string           `json:"invoice_manual,omitempty"`
	UnitPrice                *decimal.Decimal `json:"unit_price,omitempty"`
	Date                     *time.Time       `json:"date,omitempty"`
	Notes                    string           `json:"notes,omitempty"`
}

// UpdateMovementRequest parche parcial de un movimiento; nil conserva el valor actual.
// Para quitar una subbodega o un destino se envía cadena vacía.
type UpdateMovementRequest struct {
	MaterialID               *string          `json:"material_id"`
	Type                     *string          `json:"type"`
	WarehouseID              *string          `json:"warehouse_id"`
	SubLocationID            *string          `json:"sub_location_id"`
	DestinationWarehouseID   *string          `json:"destination_warehouse_id"`
	DestinationSubLocationID *string          `json:"destination_sub_location_id"`
	Quantity                 *int64           `json:"quantity"`
	BrandID                  *string          `json:"brand_id"`
	InvoiceID                *string          `json:"invoice_id"`
	InvoiceManual            *string          `json:"invoice_manual"`
	UnitPrice                *decimal.Decimal `json:"unit_price"`
	Date                     *time.Time       `json:"date"`
	Notes                    *string          `json:"notes"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                       string           `json:"id"`
	MaterialID               string           `json:"material_id"`
	Type                     string           `json:"type"`
	WarehouseID              string           `json:"warehouse_id"`
	SubLocationID            *string          `json:"sub_location_id"`
	DestinationWarehouseID   *string          `json:"destination_warehouse_id"`
	DestinationSubLocationID *string          `json:"destination_sub_location_id"`
	Quantity                 int64            `json:"quantity"`
	BrandID                  *string          `json:"brand_id"`
	InvoiceID                *string          `json:"invoice_id"`
	InvoiceManual            string           `json:"invoice_manual"`
	UnitPrice                *decimal.Decimal `json:"unit_price"`
	Date                     time.Time        `json:"date"`
	Notes                    string           `json:"notes"`
	UserID                   *string          `json:"user_id"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// MovementListQuery filtros del listado de movimientos.
type MovementListQuery struct {
	MaterialID  string
	WarehouseID string
	Type        string
	From, To    *time.Time
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InventorySummaryItem un bucket del resumen de inventario.
type InventorySummaryItem struct {
	MaterialID          string          `json:"material_id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Unit                string          `json:"unit"`
	WarehouseID         string          `json:"warehouse_id"`
	WarehouseName       string          `json:"warehouse_name"`
	SubLocationID       *string         `json:"sub_location_id"`
	SubLocationFullPath string          `json:"sub_location_full_path"`
	Quantity            int64           `json:"quantity"`
	Level               string          `json:"level"`
	AverageCost         decimal.Decimal `json:"average_cost"`
}

// ImportResult resultado de una importación masiva.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}
