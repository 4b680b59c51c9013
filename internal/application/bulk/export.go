package bulk

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/location"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// Exporter vuelca el inventario completo a un Workbook. Las referencias se escriben por
// clave natural (nombre, código, ruta, número) y cada fila lleva su ID, de modo que el
// libro exportado se puede reimportar sin duplicar nada.
type Exporter struct {
	repos    inventory.Repos
	maxDepth int
}

// NewExporter construye el exportador.
func NewExporter(repos inventory.Repos, maxDepth int) *Exporter {
	return &Exporter{repos: repos, maxDepth: maxDepth}
}

// Export lee todas las entidades, incluidas las inactivas.
func (ex *Exporter) Export(ctx context.Context) (*Workbook, error) {
	r := ex.repos
	wb := &Workbook{}

	brands, err := r.Brands.List(ctx)
	if err != nil {
		return nil, err
	}
	brandNames := make(map[string]string, len(brands))
	for i, b := range brands {
		brandNames[b.ID] = b.Name
		active := b.Active
		wb.Brands = append(wb.Brands, BrandRow{Row: i + 2, ID: b.ID, Name: b.Name, Active: &active})
	}

	warehouses, err := r.Warehouses.List(ctx, true)
	if err != nil {
		return nil, err
	}
	warehouseNames := make(map[string]string, len(warehouses))
	for i, w := range warehouses {
		warehouseNames[w.ID] = w.Name
		active := w.Active
		wb.Warehouses = append(wb.Warehouses, WarehouseRow{Row: i + 2, ID: w.ID, Name: w.Name, Location: w.Location, Active: &active})
	}

	subs, err := r.SubLocations.List(ctx, repository.SubLocationFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	tree := location.NewTree(subs, ex.maxDepth)
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	paths := make(map[string]string, len(subs))
	for _, s := range subs {
		p, err := tree.FullPath(s.ID)
		if err != nil {
			return nil, err
		}
		paths[s.ID] = p
	}
	for _, s := range ordered(subs, tree) {
		active := s.Active
		row := SubLocationRow{
			Row:       len(wb.SubLocations) + 2,
			ID:        s.ID,
			Name:      s.Name,
			Warehouse: warehouseNames[s.WarehouseID],
			Active:    &active,
		}
		if s.ParentID != "" {
			row.Parent = paths[s.ParentID]
		}
		wb.SubLocations = append(wb.SubLocations, row)
	}

	materials, err := r.Materials.List(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}
	materialCodes := make(map[string]string, len(materials))
	for i, m := range materials {
		materialCodes[m.ID] = m.Code
		row := MaterialRow{
			Row:       i + 2,
			ID:        m.ID,
			Code:      m.Code,
			Reference: m.Reference,
			Name:      m.Name,
			Unit:      m.Unit,
			LastPrice: m.LastPrice,
		}
		if m.Barcode != nil {
			row.Barcode = *m.Barcode
		}
		if m.BrandID != nil {
			row.Brand = brandNames[*m.BrandID]
		}
		wb.Materials = append(wb.Materials, row)
	}

	invoices, err := r.Invoices.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	invoiceNumbers := make(map[string]string, len(invoices))
	for i, inv := range invoices {
		invoiceNumbers[inv.ID] = inv.Number
		date := inv.Date
		wb.Invoices = append(wb.Invoices, InvoiceRow{Row: i + 2, ID: inv.ID, Number: inv.Number, Supplier: inv.Supplier, Date: &date})
	}

	movements, err := r.Movements.List(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, err
	}
	for i, m := range movements {
		date := m.Date
		row := MovementRow{
			Row:           i + 2,
			ID:            m.ID,
			Date:          &date,
			Type:          string(m.Type),
			Material:      materialCodes[m.MaterialID],
			Quantity:      m.Quantity,
			Warehouse:     warehouseNames[m.Origin.WarehouseID],
			SubLocation:   paths[m.Origin.SubLocationID],
			InvoiceManual: m.InvoiceManual,
			UnitPrice:     m.UnitPrice,
			Notes:         m.Notes,
		}
		if m.Destination != nil {
			row.DestinationWarehouse = warehouseNames[m.Destination.WarehouseID]
			row.DestinationSubLocation = paths[m.Destination.SubLocationID]
		}
		if m.BrandID != nil {
			row.Brand = brandNames[*m.BrandID]
		}
		if m.InvoiceID != nil {
			row.Invoice = invoiceNumbers[*m.InvoiceID]
		}
		wb.Movements = append(wb.Movements, row)
	}
	return wb, nil
}

// ordered subbodegas con cada padre antes que sus hijos.
func ordered(subs []*entity.SubLocation, tree *location.Tree) []*entity.SubLocation {
	byID := make(map[string]*entity.SubLocation, len(subs))
	for _, s := range subs {
		byID[s.ID] = s
	}
	out := make([]*entity.SubLocation, 0, len(subs))
	for _, s := range subs {
		if s.ParentID != "" {
			continue
		}
		ids, err := tree.Descendants(s.ID)
		if err != nil {
			continue
		}
		for _, id := range ids {
			out = append(out, byID[id])
		}
	}
	return out
}
