package entity

// UnitOfMeasure tabla de referencia de unidades. Material.Unit es texto libre y no la referencia.
type UnitOfMeasure struct {
	ID           string
	Name         string // único
	Abbreviation string // único
	Active       bool
}
