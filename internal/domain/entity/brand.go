package entity

// Brand representa una marca de materiales. Nombre único.
type Brand struct {
	ID     string
	Name   string
	Active bool
}
