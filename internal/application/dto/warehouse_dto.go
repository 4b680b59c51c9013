package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Location *string `json:"location"`
	Active   *bool   `json:"active"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Active         bool      `json:"active"`
	MaterialsCount int       `json:"materials_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateSubLocationRequest entrada para crear una subbodega.
type CreateSubLocationRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ParentID    string `json:"parent_id,omitempty"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateSubLocationRequest entrada para actualizar una subbodega.
// ParentID "" mueve la subbodega a la raíz; nil conserva el padre.
type UpdateSubLocationRequest struct {
	ParentID *string `json:"parent_id"`
	Name     *string `json:"name"`
	Active   *bool   `json:"active"`
}

// SubLocationResponse salida de una subbodega.
type SubLocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	ParentID    *string   `json:"parent_id"`
	Name        string    `json:"name"`
	FullPath    string    `json:"full_path"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubLocationListQuery filtros del listado de subbodegas.
// Parent "null" solo raíces; vacío = cualquier padre.
type SubLocationListQuery struct {
	WarehouseID     string
	Parent          string
	IncludeInactive bool
}

// StockItemResponse una fila de stock (cantidad distinta de cero).
type StockItemResponse struct {
	MaterialID          string  `json:"material_id"`
	Code                string  `json:"code"`
	Reference           string  `json:"reference"`
	Name                string  `json:"name"`
	Unit                string  `json:"unit"`
	Quantity            int64   `json:"quantity"`
	SubLocationID       *string `json:"sub_location_id"`
	SubLocationFullPath string  `json:"sub_location_full_path"`
}

// WarehouseStockResponse stock de una bodega o de un subárbol.
type WarehouseStockResponse struct {
	WarehouseID   string              `json:"warehouse_id"`
	WarehouseName string              `json:"warehouse_name"`
	SubLocationID *string             `json:"sub_location_id"`
	Items         []StockItemResponse `json:"items"`
}
