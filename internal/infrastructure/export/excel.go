package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-historico/internal/application/report"
)

const sheetName = "Inventario"

// ExcelExporter exporta el reporte a XLSX con excelize.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador XLSX.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Format identificador usado en ?format=.
func (e *ExcelExporter) Format() string { return "xlsx" }

// ContentType MIME del libro XLSX.
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export escribe encabezados, una fila por registro y una fila de totales.
func (e *ExcelExporter) Export(ctx context.Context, doc report.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, r := range doc.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		values := []any{
			r.ProductName,
			r.LocationName,
			r.LotTag,
			lastMovement(r),
			r.LastMovementKind.Label(),
			r.Quantity.InexactFloat64(),
			r.UnitValue.InexactFloat64(),
			r.TotalValue.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	totalRow := len(doc.Rows) + 2
	totals := []any{"Total", "", "", "", "", doc.Summary.TotalQuantity.InexactFloat64(), "", doc.Summary.TotalValue.InexactFloat64()}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return nil, fmt.Errorf("xlsx: totales: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "B", 30); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columna: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "H", 18); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columna: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
