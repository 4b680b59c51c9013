package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas de proveedor sobre PostgreSQL.
type InvoiceRepo struct {
	db Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(db Querier) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// Create persiste la factura. Un número repetido devuelve ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO invoices (id, number, supplier, date) VALUES ($1, $2, $3, $4)`,
		inv.ID, inv.Number, inv.Supplier, inv.Date,
	)
	if err != nil {
		return wrapWrite("insert invoice", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT id, number, supplier, date FROM invoices WHERE id = $1`, id)
}

// GetByNumber obtiene una factura por número exacto.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT id, number, supplier, date FROM invoices WHERE number = $1`, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := r.db.QueryRow(ctx, query, arg).Scan(&inv.ID, &inv.Number, &inv.Supplier, &inv.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// Update actualiza número, proveedor y fecha.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	if !validID(inv.ID) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx,
		`UPDATE invoices SET number = $2, supplier = $3, date = $4 WHERE id = $1`,
		inv.ID, inv.Number, inv.Supplier, inv.Date,
	)
	if err != nil {
		return wrapWrite("update invoice", err)
	}
	return affected(cmd)
}

// List facturas por fecha descendente; limit 0 devuelve todas.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	q := psql.Select("id", "number", "supplier", "date").From("invoices").OrderBy("date DESC", "number")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list invoices: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := []*entity.Invoice{}
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Supplier, &inv.Date); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// Delete elimina la factura; los movimientos que la referencian quedan sin factura (ON DELETE SET NULL).
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return wrapWrite("delete invoice", err)
	}
	return affected(cmd)
}
