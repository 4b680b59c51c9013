package entity

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
)

// MovementType tipo cerrado de movimiento de inventario.
type MovementType string

// Tipos de movimiento. Los valores son los que se persisten y se intercambian en hojas de cálculo.
const (
	MovementEntry      MovementType = "Entrada"
	MovementExit       MovementType = "Salida"
	MovementTransfer   MovementType = "Traslado"
	MovementEdit       MovementType = "Edicion"
	MovementAdjustment MovementType = "Ajuste"
	MovementReturn     MovementType = "Devolucion"
)

// MovementTypes lista todos los tipos válidos en orden de presentación.
var MovementTypes = []MovementType{
	MovementEntry, MovementExit, MovementTransfer, MovementEdit, MovementAdjustment, MovementReturn,
}

// MaxQuantity cantidad máxima por movimiento (rango de un entero de 32 bits).
// Con este tope ninguna suma int64 del libro puede desbordarse.
const MaxQuantity = math.MaxInt32

// ParseMovementType convierte texto a MovementType. Acepta variantes con tilde y sin distinguir mayúsculas.
func ParseMovementType(s string) (MovementType, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u").Replace(n)
	for _, t := range MovementTypes {
		if strings.ToLower(string(t)) == n {
			return t, true
		}
	}
	return "", false
}

// Valid indica si t pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	for _, v := range MovementTypes {
		if t == v {
			return true
		}
	}
	return false
}

// OriginSign signo del aporte del movimiento en la ubicación origen.
func (t MovementType) OriginSign() int64 {
	switch t {
	case MovementExit, MovementTransfer:
		return -1
	default:
		return 1
	}
}

// HasDestination solo el traslado acredita una ubicación destino.
func (t MovementType) HasDestination() bool { return t == MovementTransfer }

// ConstrainsStock solo salidas y traslados deben respetar el stock disponible en origen.
func (t MovementType) ConstrainsStock() bool {
	return t == MovementExit || t == MovementTransfer
}

// Location par bodega + subbodega. SubLocationID vacío es la ubicación "General" de la bodega.
type Location struct {
	WarehouseID   string
	SubLocationID string
}

// IsGeneral indica que no se especificó subbodega.
func (l Location) IsGeneral() bool { return l.SubLocationID == "" }

// Movement entrada del libro de movimientos. Solo se construye con NewMovement,
// que garantiza que Destination existe si y solo si el tipo es Traslado.
type Movement struct {
	ID            string
	MaterialID    string
	Type          MovementType
	Origin        Location
	Destination   *Location
	Quantity      int64
	BrandID       *string
	InvoiceID     *string
	InvoiceManual string
	UnitPrice     *decimal.Decimal
	Date          time.Time
	Notes         string
	UserID        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MovementParams datos de entrada para NewMovement.
type MovementParams struct {
	ID            string
	MaterialID    string
	Type          MovementType
	Origin        Location
	Destination   *Location
	Quantity      int64
	BrandID       *string
	InvoiceID     *string
	InvoiceManual string
	UnitPrice     *decimal.Decimal
	Date          time.Time
	Notes         string
	UserID        *string
}

// NewMovement valida la forma del movimiento según su tipo.
// No consulta stock: eso lo hace el validador de movimientos.
func NewMovement(p MovementParams) (*Movement, error) {
	if !p.Type.Valid() {
		return nil, domain.NewValidationError("tipo", "tipo de movimiento inválido")
	}
	if p.MaterialID == "" {
		return nil, domain.NewValidationError("material", "el material es obligatorio")
	}
	if p.Origin.WarehouseID == "" {
		return nil, domain.NewValidationError("bodega", "la bodega es obligatoria")
	}
	if p.Quantity <= 0 {
		return nil, domain.NewValidationError("cantidad", "la cantidad debe ser mayor que cero")
	}
	if p.Quantity > MaxQuantity {
		return nil, domain.NewValidationError("cantidad", "la cantidad excede el máximo permitido")
	}
	if p.UnitPrice != nil && p.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("precio", "el precio no puede ser negativo")
	}

	var dest *Location
	if p.Type.HasDestination() {
		if p.Destination == nil || p.Destination.WarehouseID == "" {
			return nil, domain.NewValidationError("bodega_destino", "la bodega destino es obligatoria para traslados")
		}
		if *p.Destination == p.Origin {
			return nil, domain.NewValidationError("subbodega_destino", "el origen y el destino del traslado no pueden ser iguales")
		}
		d := *p.Destination
		dest = &d
	}

	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &Movement{
		ID:            p.ID,
		MaterialID:    p.MaterialID,
		Type:          p.Type,
		Origin:        p.Origin,
		Destination:   dest,
		Quantity:      p.Quantity,
		BrandID:       p.BrandID,
		InvoiceID:     p.InvoiceID,
		InvoiceManual: p.InvoiceManual,
		UnitPrice:     p.UnitPrice,
		Date:          date,
		Notes:         p.Notes,
		UserID:        p.UserID,
	}, nil
}

// Params devuelve los datos del movimiento como MovementParams (para parches parciales).
func (m *Movement) Params() MovementParams {
	p := MovementParams{
		ID:            m.ID,
		MaterialID:    m.MaterialID,
		Type:          m.Type,
		Origin:        m.Origin,
		Quantity:      m.Quantity,
		BrandID:       m.BrandID,
		InvoiceID:     m.InvoiceID,
		InvoiceManual: m.InvoiceManual,
		UnitPrice:     m.UnitPrice,
		Date:          m.Date,
		Notes:         m.Notes,
		UserID:        m.UserID,
	}
	if m.Destination != nil {
		d := *m.Destination
		p.Destination = &d
	}
	return p
}
