package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material.
type CreateMaterialRequest struct {
	Code      string  `json:"code" validate:"required,max=50"`
	Barcode   *string `json:"barcode,omitempty"`
	Reference string  `json:"reference"`
	Name      string  `json:"name" validate:"required,max=200"`
	Unit      string  `json:"unit"`
	BrandID   *string `json:"brand_id,omitempty"`
}

// UpdateMaterialRequest entrada para actualizar un material.
type UpdateMaterialRequest struct {
	Code      *string `json:"code"`
	Barcode   *string `json:"barcode"`
	Reference *string `json:"reference"`
	Name      *string `json:"name"`
	Unit      *string `json:"unit"`
	BrandID   *string `json:"brand_id"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`
	Barcode   *string          `json:"barcode"`
	Reference string           `json:"reference"`
	Name      string           `json:"name"`
	Unit      string           `json:"unit"`
	BrandID   *string          `json:"brand_id"`
	LastPrice *decimal.Decimal `json:"last_price"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BrandRequest entrada para crear o actualizar una marca.
type BrandRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Active *bool  `json:"active"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// UnitRequest entrada para crear o actualizar una unidad de medida.
type UnitRequest struct {
	Name         string `json:"name" validate:"required,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,max=10"`
	Active       *bool  `json:"active"`
}

// UnitResponse salida de una unidad de medida.
type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Active       bool   `json:"active"`
}

// InvoiceRequest entrada para crear o actualizar una factura de proveedor.
type InvoiceRequest struct {
	Number   string     `json:"number" validate:"required,max=50"`
	Supplier string     `json:"supplier"`
	Date     *time.Time `json:"date"`
}

// InvoiceResponse salida de una factura de proveedor.
type InvoiceResponse struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	Supplier string    `json:"supplier"`
	Date     time.Time `json:"date"`
}
