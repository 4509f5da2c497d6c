package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/inventario-historico/internal/application/report"
)

// XMLExporter exporta el reporte como documento XML con etree.
type XMLExporter struct{}

// NewXMLExporter construye el exportador XML.
func NewXMLExporter() *XMLExporter { return &XMLExporter{} }

// Format identificador usado en ?format=.
func (e *XMLExporter) Format() string { return "xml" }

// ContentType MIME del documento.
func (e *XMLExporter) ContentType() string { return "application/xml" }

// Export estructura: <InventarioAFecha corte=".."><Linea>..</Linea>...<Totales/></InventarioAFecha>.
func (e *XMLExporter) Export(ctx context.Context, d report.Document) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("InventarioAFecha")
	if d.Run != nil {
		root.CreateAttr("corte", d.Run.Cutoff.To.Format(dateLayout))
		if d.Run.Cutoff.From != nil {
			root.CreateAttr("desde", d.Run.Cutoff.From.Format(dateLayout))
		}
		root.CreateAttr("ejecucion", d.Run.ID)
		root.CreateAttr("estrategia", d.Run.Strategy)
		if lot := d.Run.Filters.LotTag; lot != nil {
			root.CreateAttr("lote", *lot)
		}
	}

	for i, r := range d.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := root.CreateElement("Linea")
		line.CreateElement("ProductoID").SetText(strconv.FormatInt(r.ProductID, 10))
		line.CreateElement("Producto").SetText(r.ProductName)
		line.CreateElement("UbicacionID").SetText(strconv.FormatInt(r.LocationID, 10))
		line.CreateElement("Ubicacion").SetText(r.LocationName)
		if r.LotTag != "" {
			line.CreateElement("Lote").SetText(r.LotTag)
		}
		if r.LastMovementAt != nil {
			line.CreateElement("FechaUltimoMovimiento").SetText(r.LastMovementAt.Format("2006-01-02T15:04:05Z07:00"))
			line.CreateElement("TipoMovimiento").SetText(r.LastMovementKind.Label())
		}
		line.CreateElement("Cantidad").SetText(r.Quantity.String())
		line.CreateElement("ValorUnitario").SetText(r.UnitValue.String())
		line.CreateElement("Valorizado").SetText(r.TotalValue.String())
	}

	totals := root.CreateElement("Totales")
	totals.CreateAttr("productos", strconv.Itoa(d.Summary.TotalProducts))
	totals.CreateAttr("lineas", strconv.Itoa(d.Summary.TotalRows))
	totals.CreateAttr("cantidad", d.Summary.TotalQuantity.String())
	totals.CreateAttr("valorizado", d.Summary.TotalValue.String())

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: escribir: %w", err)
	}
	return out, nil
}
