package entity

import "time"

// SubLocation representa una subbodega (estante, fila, zona) dentro de una bodega.
// ParentID vacío indica que cuelga directamente de la bodega.
// El padre debe pertenecer a la misma bodega y la cadena de padres no puede tener ciclos.
type SubLocation struct {
	ID          string
	WarehouseID string
	ParentID    string
	Name        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la subbodega no tiene padre.
func (s *SubLocation) IsRoot() bool { return s.ParentID == "" }
