// Package export genera los archivos del inventario a fecha (XLSX, PDF y XML).
package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// Columns encabezados de la grilla en el orden de exportación.
var Columns = []string{
	"Producto",
	"Ubicación",
	"Lote/Serie",
	"Fecha Último Movimiento",
	"Tipo Movimiento",
	"Cantidad",
	"Valor Unitario",
	"Valorizado",
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "02/01/2006 15:04"
)

// All devuelve los tres exportadores.
func All() []report.Exporter {
	return []report.Exporter{NewExcelExporter(), NewPDFExporter(), NewXMLExporter()}
}

func lastMovement(r entity.ReportRow) string {
	if r.LastMovementAt == nil {
		return ""
	}
	return r.LastMovementAt.Format(dateTimeLayout)
}

// cutoffLabel "2024-03-31" o "2024-01-01 a 2024-03-31"; vacío sin ejecución.
func cutoffLabel(run *entity.ReportRun) string {
	if run == nil {
		return ""
	}
	if run.Cutoff.From != nil {
		return run.Cutoff.From.Format(dateLayout) + " a " + run.Cutoff.To.Format(dateLayout)
	}
	return run.Cutoff.To.Format(dateLayout)
}

func generatedAt(run *entity.ReportRun) time.Time {
	if run == nil {
		return time.Time{}
	}
	return run.GeneratedAt
}

// formatNumber separador de miles "." y decimal ",". Ej: 1234567.5 → "1.234.567,50".
func formatNumber(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
