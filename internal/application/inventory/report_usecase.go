package inventory

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// StockReportUseCase genera el PDF de existencias de una bodega o de un subárbol.
type StockReportUseCase struct {
	query     *StockQueryUseCase
	generator StockReportGenerator
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(query *StockQueryUseCase, generator StockReportGenerator) *StockReportUseCase {
	return &StockReportUseCase{query: query, generator: generator}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Download devuelve el PDF y un nombre de archivo seguro para Content-Disposition.
func (uc *StockReportUseCase) Download(ctx context.Context, warehouseID, subLocationID string) ([]byte, string, error) {
	report, err := uc.query.WarehouseStock(ctx, warehouseID, subLocationID)
	if err != nil {
		return nil, "", err
	}
	scope := ""
	if subLocationID != "" {
		tree, err := uc.query.stock.Tree(ctx, uc.query.repos, warehouseID)
		if err != nil {
			return nil, "", err
		}
		if scope, err = tree.FullPath(subLocationID); err != nil {
			return nil, "", err
		}
	}
	now := time.Now()
	pdfBytes, err := uc.generator.GenerateStockReport(ctx, report, scope, now)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de stock: %w", err)
	}
	name := strings.Trim(unsafeFilename.ReplaceAllString(report.WarehouseName, "_"), "_")
	if name == "" {
		name = "bodega"
	}
	return pdfBytes, fmt.Sprintf("stock_%s_%s.pdf", name, now.Format("20060102")), nil
}
