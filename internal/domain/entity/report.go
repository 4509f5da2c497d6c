package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow fila materializada del reporte de inventario a fecha.
type ReportRow struct {
	ProductID        int64
	ProductName      string
	LocationID       int64
	LocationName     string
	Quantity         decimal.Decimal
	UnitValue        decimal.Decimal // promedio ponderado
	TotalValue       decimal.Decimal // UnitValue * Quantity
	LotTag           string
	LastMovementAt   *time.Time
	LastMovementKind MovementKind
}

// ReportRun metadatos de la última ejecución materializada (reemplazo total, sin versiones).
type ReportRun struct {
	ID          string
	GeneratedAt time.Time
	Cutoff      Cutoff
	Filters     Filters
	Strategy    string
	Costing     string
	RowCount    int
	Skipped     int
}
