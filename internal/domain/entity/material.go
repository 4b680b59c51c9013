package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un material o insumo inventariable.
// BrandID y LastPrice se actualizan como proyección posterior a las entradas.
type Material struct {
	ID        string
	Code      string  // único
	Barcode   *string // único si existe
	Reference string
	Name      string
	Unit      string // "ud", "m", "L", ... texto libre
	BrandID   *string
	LastPrice *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
