package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Errores estructurales de la jerarquía de ubicaciones y de la importación.
	ErrHierarchyCycle       = errors.New("ciclo detectado en la jerarquía de subbodegas")
	ErrHierarchyTooDeep     = errors.New("la jerarquía de subbodegas supera la profundidad máxima")
	ErrCrossWarehouseParent = errors.New("la subbodega padre pertenece a otra bodega")
	ErrUnresolvedReference  = errors.New("referencia no resuelta")
)

// GeneralField clave usada cuando un error de validación no corresponde a un campo concreto.
const GeneralField = "general"

// ValidationError error recuperable asociado a un campo del movimiento o entidad.
type ValidationError struct {
	Field   string // vacío = general
	Message string
	Err     error // sentinel subyacente (ErrInvalidInput si es nil)
}

// NewValidationError construye un error de validación sobre ErrInvalidInput.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: ErrInvalidInput}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key(), e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// Key devuelve el campo o "general".
func (e *ValidationError) Key() string {
	if e.Field == "" {
		return GeneralField
	}
	return e.Field
}

// Fields devuelve la forma {campo_o_general: mensaje} expuesta por la API.
func (e *ValidationError) Fields() map[string]string {
	return map[string]string{e.Key(): e.Message}
}

// InsufficientStockError rechazo de una salida o traslado que supera el disponible.
type InsufficientStockError struct {
	Available int64
	Requested int64
	Unit      string
	Location  string // "Bodega Central / General", "Bodega Central / Estante 3 > Fila 1"
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente en %s. Disponible: %d %s.", e.Location, e.Available, e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StructuralError falla de integridad estructural (ciclo, referencia no resuelta, profundidad).
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// IsStructural indica si err es un error estructural.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
