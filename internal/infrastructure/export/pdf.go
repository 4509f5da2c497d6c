package export

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-historico/internal/application/report"
	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// anchos de columna (grilla de 12) en el orden de Columns
var columnSizes = []int{2, 2, 1, 2, 1, 1, 1, 2}

// ── Exporter ──────────────────────────────────────────────────────────────────

// PDFExporter exporta el reporte a PDF A4 horizontal con Maroto v2.
type PDFExporter struct{}

// NewPDFExporter construye el exportador PDF.
func NewPDFExporter() *PDFExporter { return &PDFExporter{} }

// Format identificador usado en ?format=.
func (e *PDFExporter) Format() string { return "pdf" }

// ContentType MIME del documento.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Export genera el PDF y devuelve sus bytes.
func (e *PDFExporter) Export(ctx context.Context, doc report.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Inventario a fecha", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc.Run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for i, r := range doc.Rows {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m.AddRows(tableDetailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Summary))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + fecha de corte (izq) y datos de la ejecución (der).
func headerRow(run *entity.ReportRun) core.Row {
	generated := ""
	if at := generatedAt(run); !at.IsZero() {
		generated = "Generado: " + at.Format(dateTimeLayout)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("INVENTARIO A FECHA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Corte: "+cutoffLabel(run), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(generated, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(Columns))
	for i, label := range Columns {
		a := align.Left
		if i >= 5 {
			a = align.Right
		}
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableDetailRow(r entity.ReportRow) core.Row {
	values := []string{
		r.ProductName,
		r.LocationName,
		r.LotTag,
		lastMovement(r),
		r.LastMovementKind.Label(),
		formatNumber(r.Quantity, 2),
		"$" + formatNumber(r.UnitValue, 2),
		"$" + formatNumber(r.TotalValue, 2),
	}
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		a := align.Left
		if i >= 5 {
			a = align.Right
		}
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(v, props.Text{
			Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

// totalsRow: productos distintos, cantidad y valorizado total.
func totalsRow(s report.Summary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2})
	}
	return row.New(10).Add(
		col.New(4).Add(label("Productos: "+strconv.Itoa(s.TotalProducts))),
		col.New(4).Add(label("Cantidad total: "+formatNumber(s.TotalQuantity, 2))),
		col.New(4).Add(text.New("TOTAL VALORIZADO: $"+formatNumber(s.TotalValue, 2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}
