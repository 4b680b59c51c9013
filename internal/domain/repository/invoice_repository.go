package repository

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas de proveedor.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	// Delete deja en nulo la factura de los movimientos que la referencian.
	Delete(ctx context.Context, id string) error
}
