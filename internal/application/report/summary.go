package report

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Summary resumen del tablero: productos distintos, cantidad y valor total.
type Summary struct {
	Run           *entity.ReportRun
	TotalRows     int
	TotalProducts int
	TotalQuantity decimal.Decimal
	TotalValue    decimal.Decimal
}

// Summarize calcula los totales sobre las filas del reporte.
func Summarize(run *entity.ReportRun, rows []entity.ReportRow) Summary {
	s := Summary{Run: run, TotalRows: len(rows), TotalQuantity: decimal.Zero, TotalValue: decimal.Zero}
	products := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		products[r.ProductID] = struct{}{}
		s.TotalQuantity = s.TotalQuantity.Add(r.Quantity)
		s.TotalValue = s.TotalValue.Add(r.TotalValue)
	}
	s.TotalProducts = len(products)
	return s
}
