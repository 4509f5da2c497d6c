package inventory

import (
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// RowOptions opciones de conformación del reporte.
type RowOptions struct {
	// IncludeNegative modo diagnóstico: también devuelve saldos negativos. Los saldos en cero nunca se reportan.
	IncludeNegative bool
	// LocationID limita las filas a la ubicación filtrada; los saldos de la contraparte quedan fuera.
	LocationID *int64
}

// Rows convierte los saldos en filas de reporte ordenadas por (producto, ubicación) ascendente.
// Por defecto solo se reporta stock positivo.
func Rows(res *Result, opts RowOptions) []entity.ReportRow {
	rows := make([]entity.ReportRow, 0, len(res.Balances))
	for _, k := range res.Keys() {
		b := res.Balances[k]
		if !reportable(b, opts) {
			continue
		}
		rows = append(rows, entity.ReportRow{
			ProductID:        k.ProductID,
			LocationID:       k.LocationID,
			Quantity:         b.Quantity,
			UnitValue:        b.UnitValue(),
			TotalValue:       b.TotalValue(),
			LotTag:           b.LotTag,
			LastMovementAt:   b.LastMovementAt,
			LastMovementKind: b.LastMovementKind,
		})
	}
	return rows
}

func reportable(b *Balance, opts RowOptions) bool {
	if opts.LocationID != nil && b.LocationID != *opts.LocationID {
		return false
	}
	if b.Quantity.IsPositive() {
		return true
	}
	return opts.IncludeNegative && b.Quantity.IsNegative()
}
