package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		25000:    "25.000",
		1000000:  "1.000.000",
		-1500:    "-1.500",
		-999:     "-999",
		12345678: "12.345.678",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(in), "cantidad %d", in)
	}
}

func TestGenerateStockReport(t *testing.T) {
	report := &dto.WarehouseStockResponse{
		WarehouseID:   "w1",
		WarehouseName: "Bodega Central",
		Items: []dto.StockItemResponse{
			{MaterialID: "m1", Code: "CAB-01", Name: "Cable", Unit: "m", Quantity: 1500, SubLocationFullPath: "Estante 3 > Fila 1"},
			{MaterialID: "m1", Code: "CAB-01", Name: "Cable", Unit: "m", Quantity: 20, SubLocationFullPath: "General"},
		},
	}
	out, err := NewMarotoPDFGenerator().GenerateStockReport(context.Background(), report, "", time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// Caso: bodega vacía también genera documento.
	out, err = NewMarotoPDFGenerator().GenerateStockReport(context.Background(),
		&dto.WarehouseStockResponse{WarehouseName: "Vacía"}, "Estante 3", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
