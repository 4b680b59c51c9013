package entity

import "time"

// Warehouse representa una bodega. Nunca se elimina mientras tenga movimientos; se desactiva con Active.
type Warehouse struct {
	ID        string
	Name      string
	Location  string // ubicación libre (dirección, ciudad, referencia)
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
